package file

import "errors"

var (
	// ErrInvalidConfig is returned when storage configuration is incomplete
	ErrInvalidConfig = errors.New("invalid storage configuration")

	// ErrNilFileHeader is returned when a nil file header is provided
	ErrNilFileHeader = errors.New("file header is nil")

	// ErrInvalidPath is returned when the path contains traversal attempts
	ErrInvalidPath = errors.New("invalid path")

	// ErrFileNotFound is returned when a file does not exist
	ErrFileNotFound = errors.New("file not found")

	// ErrFileTooLarge is returned when a file exceeds the maximum allowed size
	ErrFileTooLarge = errors.New("file size exceeds maximum allowed size")

	// ErrMIMETypeNotAllowed is returned when a file's MIME type is not in the allowed list
	ErrMIMETypeNotAllowed = errors.New("MIME type is not allowed")

	// ErrFailedToOpenFile is returned when a file cannot be opened
	ErrFailedToOpenFile = errors.New("failed to open file")

	// ErrFailedToReadFile is returned when a file cannot be read
	ErrFailedToReadFile = errors.New("failed to read file")

	// ErrFailedToWriteFile is returned when a file cannot be written
	ErrFailedToWriteFile = errors.New("failed to write file")

	// ErrFailedToCreateFile is returned when a file cannot be created
	ErrFailedToCreateFile = errors.New("failed to create file")

	// ErrFailedToDeleteFile is returned when a file cannot be deleted
	ErrFailedToDeleteFile = errors.New("failed to delete file")

	// ErrFailedToCreateDirectory is returned when a directory cannot be created
	ErrFailedToCreateDirectory = errors.New("failed to create directory")

	// ErrFailedToStatPath is returned when file info cannot be obtained
	ErrFailedToStatPath = errors.New("failed to stat path")

	// ErrIsDirectory is returned when a path is expected to be a file but is a directory
	ErrIsDirectory = errors.New("path is a directory")

	// ErrFailedToGetAbsolutePath is returned when an absolute path cannot be determined
	ErrFailedToGetAbsolutePath = errors.New("failed to get absolute path")

	// ErrFailedToLoadConfig is returned when AWS configuration cannot be loaded
	ErrFailedToLoadConfig = errors.New("failed to load AWS configuration")

	// ErrBucketNotFound is returned when the configured bucket does not exist
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrAccessDenied is returned when the storage backend rejects the credentials
	ErrAccessDenied = errors.New("access denied")

	// ErrServiceUnavailable is returned when the storage backend is throttling or down
	ErrServiceUnavailable = errors.New("storage service unavailable")

	// ErrOperationTimeout is returned when a storage operation exceeds its deadline
	ErrOperationTimeout = errors.New("storage operation timed out")

	// ErrOperationCanceled is returned when a storage operation is canceled
	ErrOperationCanceled = errors.New("storage operation canceled")
)
