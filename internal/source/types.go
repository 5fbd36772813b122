package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, dataset record).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM is set when a byte order mark was stripped on load.
	FileHadBOM
	// FileHasCRLF is set when the content uses \r\n terminators. Content is never normalised.
	FileHasCRLF
)

// File captures metadata and content for a single unit of source text.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Lines   []Line
	Hash    [32]byte
	Flags   FileFlags
}

// Point is a zero-based row/column position; Column counts bytes from line start.
type Point struct {
	Row    uint32
	Column uint32
}
