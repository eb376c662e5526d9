// Package numfile reads and writes operand and result files.
//
// A file holds the decimal digit count, then the digits with the most
// significant first, conventionally one per line. A count that disagrees with the digits is logged
// and the digits win.
package numfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/agbru/addcalc/internal/bignum"
	apperrors "github.com/agbru/addcalc/internal/errors"
	"github.com/agbru/addcalc/internal/logging"
)

// Read loads the number stored at path. Every failure is an
// apperrors.InputError naming path.
func Read(path string, logger logging.Logger) (bignum.BigNumber, error) {
	f, err := os.Open(path)
	if err != nil {
		return bignum.BigNumber{}, apperrors.InputError{Path: path, Cause: err}
	}
	defer f.Close()
	return Decode(bufio.NewReader(f), path, logger)
}

// maxToken bounds a single digit run held by the scanner.
const maxToken = 1 << 30

// Decode parses the file format from r. name identifies the source in
// errors and warnings. The count and the digits are whitespace separated
// tokens, so they may share a line or be split by blank lines.
func Decode(r io.Reader, name string, logger logging.Logger) (bignum.BigNumber, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxToken)
	sc.Split(bufio.ScanWords)

	countTok, err := nextToken(sc)
	if err != nil {
		return bignum.BigNumber{}, apperrors.NewInputError(name, "reading digit count: %v", err)
	}
	count, err := strconv.Atoi(countTok)
	if err != nil || count < 0 {
		return bignum.BigNumber{}, apperrors.NewInputError(name, "invalid digit count %q", countTok)
	}

	digits, err := nextToken(sc)
	if err != nil {
		return bignum.BigNumber{}, apperrors.NewInputError(name, "reading digits: %v", err)
	}
	n, err := bignum.Parse(digits)
	if err != nil {
		return bignum.BigNumber{}, apperrors.InputError{Path: name, Cause: err}
	}
	if len(digits) != count {
		logger.Warn("digit count does not match digits, using the digits",
			logging.String("file", name),
			logging.Int("declared", count),
			logging.Int("actual", len(digits)))
	}
	return n, nil
}

func nextToken(sc *bufio.Scanner) (string, error) {
	if sc.Scan() {
		return sc.Text(), nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", io.ErrUnexpectedEOF
}

// Write stores n at path, creating parent directories as needed.
func Write(path string, n bignum.BigNumber) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.InputError{Path: path, Cause: fmt.Errorf("creating directory: %w", err)}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.InputError{Path: path, Cause: err}
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, n); err != nil {
		f.Close()
		return apperrors.InputError{Path: path, Cause: err}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return apperrors.InputError{Path: path, Cause: err}
	}
	if err := f.Close(); err != nil {
		return apperrors.InputError{Path: path, Cause: err}
	}
	return nil
}

// Encode writes n in the file format.
func Encode(w io.Writer, n bignum.BigNumber) error {
	_, err := fmt.Fprintf(w, "%d\n%s\n", n.Len(), n.String())
	return err
}
