package analysis

// Request describes one image the caller wants read.
type Request struct {
	// FilePath is a path on the local filesystem. For multipart uploads it
	// points into the uploads directory; for the path variant it is
	// caller-supplied.
	FilePath string

	// MIMEType is the declared type of the file, not sniffed.
	MIMEType string

	// Instruction is the caller-supplied prompt. Empty means the default
	// odometer-extraction instruction.
	Instruction string
}

// RemoteFile is the provider's handle for an uploaded file. It is only valid
// for the provider that issued it and is never released by this service.
type RemoteFile struct {
	URI      string
	MIMEType string
}
