package framework

import (
	"net/http"
	"sort"
	"strings"

	"github.com/alessio/shellescape"
)

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// curlCommand builds a shell command line that sends the same request, for pasting into a
// terminal when investigating a failure. Session cookies are not included.
func curlCommand(req *http.Request, body []byte) string {
	var b commandBuilder
	b.add("curl", "-sS", "-X", req.Method)
	names := make([]string, 0, len(req.Header))
	for name := range req.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range req.Header[name] {
			b.add("-H", name+": "+value)
		}
	}
	if len(body) > 0 {
		b.add("--data-raw", string(body))
	}
	b.add(req.URL.String())
	return b.String()
}
