package transfer

import (
	"fmt"
	"io"
	"net/http"

	"github.com/jaywantadh/midasclient/pkg/envelope"
)

// Classify picks the path for a fresh response. Any code other than 200
// means the body is one complete envelope: it is read, decoded and returned,
// and the body is closed. On 200 the body is returned unread and the caller
// owns closing it; the code alone does not prove logical success.
func Classify[T any](op string, resp *http.Response) (*envelope.Envelope[T], io.ReadCloser, error) {
	if resp.StatusCode == StatusOK {
		return nil, resp.Body, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, transportError(op, err)
	}

	env, err := envelope.Decode[T](body)
	if err != nil {
		return nil, nil, decodeError(op, fmt.Errorf("%s: %w", resp.Status, err))
	}
	return &env, nil, nil
}
