package framework

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const servicePollInterval = time.Millisecond * 100

// WaitForService polls url until the service answers with any HTTP response, or until timeout.
// It is used before a run when the service under test may still be starting up.
func WaitForService(ctx context.Context, url string, timeout time.Duration, output io.Writer) error {
	fmt.Fprintf(output, "Connecting to service at %s", url)
	defer fmt.Fprintln(output)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		err := pingService(ctx, url)
		if err == nil {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(servicePollInterval):
		}
	}
}

func pingService(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*2)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
