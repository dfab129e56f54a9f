package pgio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Record is one FASTA entry: a header line (without the leading '>')
// and its sequence with all interior whitespace stripped.
type Record struct {
	Header   string
	Sequence []byte
}

// ReadFasta reads every record from path, adapted from
// dna_aligner/io/reader.go's ReadSequence — generalized from a single
// trimmed whole-file sequence to a multi-record FASTA parser, and
// extended to transparently decompress a ".gz" path.
func ReadFasta(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pgio: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("pgio: gunzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	var cur *Record
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			if cur != nil {
				records = append(records, *cur)
			}
			cur = &Record{Header: strings.TrimSpace(line[1:])}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("pgio: %s: sequence data before first header", path)
		}
		cur.Sequence = append(cur.Sequence, []byte(strings.TrimSpace(line))...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pgio: read %s: %w", path, err)
	}
	if cur != nil {
		records = append(records, *cur)
	}
	return records, nil
}

// WriteFasta writes records to path, wrapping sequences at width bases
// per line (0 disables wrapping). A ".gz" suffix compresses the output.
func WriteFasta(path string, records []Record, width int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pgio: create %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for _, rec := range records {
		if _, err := fmt.Fprintf(bw, ">%s\n", rec.Header); err != nil {
			return err
		}
		if width <= 0 {
			if _, err := bw.Write(rec.Sequence); err != nil {
				return err
			}
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
			continue
		}
		for i := 0; i < len(rec.Sequence); i += width {
			end := i + width
			if end > len(rec.Sequence) {
				end = len(rec.Sequence)
			}
			if _, err := bw.Write(rec.Sequence[i:end]); err != nil {
				return err
			}
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
