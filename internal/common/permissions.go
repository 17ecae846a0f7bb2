package common

// File permission constants shared by every writer in the application
const (
	// FilePermissionSecure is used for config files
	FilePermissionSecure = 0600

	// FilePermissionNormal is used for generated data files
	FilePermissionNormal = 0644

	// DirPermissionNormal is used for output directories
	DirPermissionNormal = 0755
)
