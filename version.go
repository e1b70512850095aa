package recorder

const version = "1.2.0"

// Version returns the version of the recorder library.
func Version() string {
	return version
}
