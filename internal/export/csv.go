package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"electwatch/internal"
)

var csvHeader = []string{"일련번호", "담당 선관위", "선거 단위", "투표율", "비고"}

const utf8BOM = "\ufeff"

// CSVFileName is the download name for an export taken at t.
func CSVFileName(t time.Time) string {
	return "yonsei_vote_" + t.Format("20060102_150405") + ".csv"
}

// WriteCSV writes records with a UTF-8 byte order mark so spreadsheet tools
// detect the encoding.
func WriteCSV(w io.Writer, records []internal.UnitRecord) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.SerialNumber),
			r.Commission,
			CSVUnitName(r.UnitName),
			FormatRate(r.TurnoutRate),
			Remark(r),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes records under dir and returns the file path.
func SaveCSV(dir string, records []internal.UnitRecord, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, CSVFileName(now))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WriteCSV(f, records); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}
