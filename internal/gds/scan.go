package gds

import "io"

// ReadCellNames scans a GDS stream and returns the structure names in
// stream order. Only STRNAME records between BGNSTR and ENDSTR with the
// ASCII datatype are honored; names that decode to "" are dropped. The
// scan stops at ENDLIB and ignores any trailing bytes; a stream ending
// without ENDLIB returns what was collected so far.
func ReadCellNames(r io.Reader) ([]string, error) {
	inStruct := false
	cells := []string{}

	err := walk(r, func(rec *Record) (bool, error) {
		switch rec.Type {
		case recBgnStr:
			inStruct = true
		case recStrName:
			if inStruct && rec.DataType == dtASCII {
				if name := decodeName(rec.Data); name != "" {
					cells = append(cells, name)
				}
			}
		case recEndStr:
			inStruct = false
		case recEndLib:
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return cells, nil
}
