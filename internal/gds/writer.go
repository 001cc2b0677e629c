package gds

// WriteOASIS is the export entry point of the write path. The OASIS
// encoder is not implemented yet; the function accepts the destination
// path, performs no work, and reports no error. Callers must not assume a
// file is produced.
//
// TODO: implement OASIS encoding once the output schema is settled.
func WriteOASIS(path string) error {
	_ = path
	return nil
}
