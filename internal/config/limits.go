package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file names.
	// Same as folder names for consistency.
	MaxFileNameLength = 255

	// MaxTreeDepth caps upward and downward tree walks. The parent
	// chain is acyclic by construction; the cap guards traversal
	// against corrupted data rather than legitimate trees.
	MaxTreeDepth = 128

	// MaxUploadBytes is the per-request multipart body limit.
	MaxUploadBytes = 256 << 20 // 256MB

	// MaxFieldBytes limits a single non-file multipart form value.
	MaxFieldBytes = 16 << 10
)
