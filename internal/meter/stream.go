package meter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Stream appends one sample per line of r to live until r is exhausted or ctx
// is done. Blank lines and lines starting with # are skipped. "-inf" and
// "silence" mean negative infinity.
func Stream(ctx context.Context, r io.Reader, live *Live) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		db, err := parseSample(text)
		if err != nil {
			return fmt.Errorf("%w: line %d: %q", ErrMalformed, line, truncate(text, 32))
		}
		live.Append(db)
	}
	return sc.Err()
}

func parseSample(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "-inf", "silence":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "dB")), 64)
}
