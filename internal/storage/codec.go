// Package storage persists tasks in a pipe-delimited flat file.
//
// Each record is one line:
//
//	id|description|priority|completed|createdAt|completedAt|tags
//
// Lines that are blank or start with '#' are ignored on read.
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/metalagman/todo/internal/task"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	delimiter = "|"
	nullValue = "NULL"

	// minFields is the number of fields a record needs; tags may be omitted.
	minFields = 6

	writeLayout = "2006-01-02T15:04:05.999999999"
)

// Header is written before the records on every save.
var Header = []string{
	"# To-Do App Tasks File",
	"# Format: id|description|priority|completed|createdAt|completedAt|tags",
	"",
}

// Fractional seconds are accepted by both layouts when parsing.
var readLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}

// ErrMalformedRecord is wrapped by every record decoding error.
var ErrMalformedRecord = errors.New("malformed task record")

// Codec converts tasks to lines of text and back.
type Codec struct {
	legacy bool
	logger zerolog.Logger
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithLegacyEscaping switches to the historical escaping: '|', LF and CR are
// escaped in descriptions on write, records are split on every '|' and nothing
// is unescaped on read.
func WithLegacyEscaping(enabled bool) CodecOption {
	return func(c *Codec) {
		c.legacy = enabled
	}
}

// WithLogger sets the logger used for skipped-record warnings.
func WithLogger(logger zerolog.Logger) CodecOption {
	return func(c *Codec) {
		c.logger = logger
	}
}

// NewCodec creates a codec. By default escaping is symmetric and round-trips any text.
func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{logger: log.Logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode writes the header followed by one record per task.
func (c *Codec) Encode(w io.Writer, tasks []task.Task) error {
	bw := bufio.NewWriter(w)
	for _, line := range Header {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, t := range tasks {
		if _, err := bw.WriteString(c.EncodeRecord(t) + "\n"); err != nil {
			return fmt.Errorf("write task %d: %w", t.ID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush tasks: %w", err)
	}
	return nil
}

// EncodeRecord renders a single task line without the trailing newline.
func (c *Codec) EncodeRecord(t task.Task) string {
	completedAt := nullValue
	if t.CompletedAt != nil {
		completedAt = t.CompletedAt.Format(writeLayout)
	}
	tags := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		tags = append(tags, c.escapeTag(tag))
	}
	fields := []string{
		strconv.Itoa(t.ID),
		c.escapeDescription(t.Description),
		string(t.Priority),
		strconv.FormatBool(t.Completed),
		t.CreatedAt.Format(writeLayout),
		completedAt,
		strings.Join(tags, ","),
	}
	return strings.Join(fields, delimiter)
}

// Decode reads every record from r. Malformed records are skipped with a warning;
// only a read failure returns an error.
func (c *Codec) Decode(r io.Reader) ([]task.Task, error) {
	reader := bufio.NewReader(r)

	tasks := []task.Task{}
	for lineNo := 1; ; lineNo++ {
		raw, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("read tasks: %w", readErr)
		}
		line := strings.TrimSpace(raw)
		if line != "" && !strings.HasPrefix(line, "#") {
			t, err := c.DecodeRecord(line)
			if err != nil {
				c.logger.Warn().Err(err).Int("line", lineNo).Str("record", line).Msg("skipping task record")
			} else {
				tasks = append(tasks, t)
			}
		}
		if readErr != nil {
			return tasks, nil
		}
	}
}

// DecodeRecord parses one non-comment line.
func (c *Codec) DecodeRecord(line string) (task.Task, error) {
	parts := c.split(line)
	if len(parts) < minFields {
		return task.Task{}, fmt.Errorf("%w: want at least %d fields, got %d", ErrMalformedRecord, minFields, len(parts))
	}

	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: parse id: %w", ErrMalformedRecord, err)
	}
	if id < 0 {
		return task.Task{}, fmt.Errorf("%w: negative id %d", ErrMalformedRecord, id)
	}
	priority, err := task.ParsePriority(parts[2])
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	createdAt, err := parseTime(parts[4])
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: parse createdAt: %w", ErrMalformedRecord, err)
	}
	var completedAt *time.Time
	if parts[5] != nullValue {
		at, err := parseTime(parts[5])
		if err != nil {
			return task.Task{}, fmt.Errorf("%w: parse completedAt: %w", ErrMalformedRecord, err)
		}
		completedAt = &at
	}

	tags := []string{}
	if len(parts) > minFields && parts[6] != "" {
		tags = c.splitTags(parts[6])
	}

	return task.Task{
		ID:          id,
		Description: c.unescape(parts[1]),
		Priority:    priority,
		Completed:   strings.EqualFold(parts[3], "true"),
		CreatedAt:   createdAt,
		CompletedAt: completedAt,
		Tags:        tags,
	}, nil
}

func (c *Codec) split(line string) []string {
	if c.legacy {
		return strings.Split(line, delimiter)
	}
	return splitUnescaped(line, '|')
}

// splitTags drops trailing empty pieces before trimming, like the tag list was always read.
func (c *Codec) splitTags(field string) []string {
	var pieces []string
	if c.legacy {
		pieces = strings.Split(field, ",")
	} else {
		pieces = splitUnescaped(field, ',')
	}
	for len(pieces) > 0 && pieces[len(pieces)-1] == "" {
		pieces = pieces[:len(pieces)-1]
	}
	tags := make([]string, 0, len(pieces))
	for _, p := range pieces {
		tags = append(tags, strings.TrimSpace(c.unescape(p)))
	}
	return tags
}

func (c *Codec) escapeDescription(s string) string {
	if c.legacy {
		return legacyReplacer.Replace(s)
	}
	return escapeReplacer.Replace(s)
}

func (c *Codec) escapeTag(s string) string {
	if c.legacy {
		return s
	}
	return tagEscapeReplacer.Replace(s)
}

func (c *Codec) unescape(s string) string {
	if c.legacy {
		return s
	}
	return unescape(s)
}

var (
	escapeReplacer    = strings.NewReplacer(`\`, `\\`, "|", `\|`, "\n", `\n`, "\r", `\r`)
	// Tags are joined with ',' so it is escaped there as well.
	tagEscapeReplacer = strings.NewReplacer(`\`, `\\`, "|", `\|`, "\n", `\n`, "\r", `\r`, ",", `\,`)
	legacyReplacer    = strings.NewReplacer("|", `\|`, "\n", `\n`, "\r", `\r`)
)

// splitUnescaped splits on sep unless it is preceded by a backslash escape.
// Escape sequences are left in place for unescape.
func splitUnescaped(s string, sep byte) []string {
	var fields []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '\\' && i+1 < len(s):
			b.WriteByte(ch)
			b.WriteByte(s[i+1])
			i++
		case ch == sep:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteByte(ch)
		}
	}
	return append(fields, b.String())
}

// unescape reverses escapeReplacer and tagEscapeReplacer. Unknown sequences are kept verbatim.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 == len(s) {
			b.WriteByte(ch)
			continue
		}
		i++
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case '|', ',':
			b.WriteByte(s[i])
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func parseTime(value string) (time.Time, error) {
	var err error
	for _, layout := range readLayouts {
		var t time.Time
		t, err = time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
