package annotate

import (
	"net/http"
	"strings"

	"github.com/jkirker/Page-Exec-Timer/internal/metrics"
)

const defaultMaxBufferBytes = 512 * 1024 // typical HTML page fits well under this

// responseAnnotator wraps an http.ResponseWriter and buffers HTML responses
// so the footer comment (and optionally the DOM script) can be attached once
// the handler finishes. Buffering is capped; oversized or non-HTML responses
// switch to passthrough and reach the client untouched.
type responseAnnotator struct {
	http.ResponseWriter
	statusCode    int
	buffer        []byte
	headerWritten bool
	passthrough   bool
	maxSize       int
	outcome       metrics.OutcomeLabel
}

func newResponseAnnotator(w http.ResponseWriter, maxSize int) *responseAnnotator {
	if maxSize <= 0 {
		maxSize = defaultMaxBufferBytes
	}
	return &responseAnnotator{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		maxSize:        maxSize,
	}
}

func (a *responseAnnotator) WriteHeader(code int) {
	if a.headerWritten {
		return
	}
	a.statusCode = code
	// Hold the header back until finalize so Content-Length can still change.
	if a.passthrough {
		a.ResponseWriter.WriteHeader(code)
		a.headerWritten = true
	}
}

func (a *responseAnnotator) Write(data []byte) (int, error) {
	// Content-Type decides buffering on the first write.
	if !a.headerWritten && !a.passthrough && a.buffer == nil {
		contentType := a.ResponseWriter.Header().Get("Content-Type")
		isHTML := contentType == "" || strings.Contains(contentType, "text/html")

		if !isHTML {
			a.passthrough = true
			a.outcome = metrics.OutcomePassthroughType
			a.ResponseWriter.WriteHeader(a.statusCode)
			a.headerWritten = true
			return a.ResponseWriter.Write(data)
		}

		a.buffer = make([]byte, 0, 64*1024)
	}

	if a.passthrough {
		return a.ResponseWriter.Write(data)
	}

	if len(a.buffer)+len(data) > a.maxSize {
		// Too large to hold back. Flush what we have and stop interfering.
		a.passthrough = true
		a.outcome = metrics.OutcomePassthroughSize
		a.ResponseWriter.Header().Del("Content-Length")
		a.ResponseWriter.WriteHeader(a.statusCode)
		a.headerWritten = true

		if len(a.buffer) > 0 {
			if _, err := a.ResponseWriter.Write(a.buffer); err != nil {
				return 0, err
			}
		}
		return a.ResponseWriter.Write(data)
	}

	a.buffer = append(a.buffer, data...)
	return len(data), nil
}

// finalize flushes the response. Buffered HTML gets the script injected
// before </body> and the comment appended after the document; everything
// else is released unchanged. The returned label names what happened.
func (a *responseAnnotator) finalize(script, comment string) metrics.OutcomeLabel {
	if a.passthrough || len(a.buffer) == 0 {
		if !a.headerWritten {
			a.ResponseWriter.WriteHeader(a.statusCode)
			a.headerWritten = true
		}
		if a.outcome == "" {
			a.outcome = metrics.OutcomeSkipped
		}
		return a.outcome
	}

	html := string(a.buffer)
	if script != "" {
		html = strings.Replace(html, "</body>", script+"</body>", 1)
	}
	if comment != "" {
		html += "\n" + comment
	}

	a.ResponseWriter.Header().Del("Content-Length")
	a.ResponseWriter.WriteHeader(a.statusCode)
	a.headerWritten = true
	_, _ = a.ResponseWriter.Write([]byte(html))

	a.outcome = metrics.OutcomeAnnotated
	return a.outcome
}
