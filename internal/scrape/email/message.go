package email

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
)

const maxPartBytes = 6 << 20

// parsed is the readable content of one e-mail.
type parsed struct {
	Subject string
	Date    time.Time
	Plain   string
	HTML    string
}

// parseMessage decodes an RFC822 message, keeping the largest text/plain
// and text/html parts. Transfer encodings are undone by go-message; parts
// in charsets it cannot decode are kept as raw bytes.
func parseMessage(raw []byte) (parsed, error) {
	var out parsed
	if len(raw) == 0 {
		return out, errors.New("empty message")
	}

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return out, err
	}

	if s, err := mr.Header.Subject(); err == nil {
		out.Subject = strings.TrimSpace(s)
	}
	if d, err := mr.Header.Date(); err == nil {
		out.Date = d
	}

	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return out, err
		}
		if p == nil {
			break
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, _ := h.ContentType()
		b, _ := io.ReadAll(io.LimitReader(p.Body, maxPartBytes))

		switch {
		case strings.HasPrefix(ct, "text/html"):
			if len(b) > len(out.HTML) {
				out.HTML = string(b)
			}
		case strings.HasPrefix(ct, "text/plain"), ct == "":
			if len(b) > len(out.Plain) {
				out.Plain = string(b)
			}
		}
	}
	return out, nil
}
