// Package api holds one function per portal endpoint. Each call is
// synchronous; ordering and retries are the caller's concern.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	clienterrors "github.com/techsbuilds/pgsphere-customer/client/internal/errors"
	"github.com/techsbuilds/pgsphere-customer/client/internal/types"
)

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 4 << 20

// call performs one request and returns the status and body of a 2xx
// response. Non-2xx responses and network failures come back as
// *clienterrors.ClassifiedError; the envelope message, when present, is
// carried on the error.
func call(ctx context.Context, httpClient types.HTTPClient, method, url, op string, body any) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	// Note: the session cookie is added by the transport layer

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, clienterrors.NewNetworkError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, clienterrors.NewNetworkError(op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		herr := clienterrors.NewHTTPError(resp.StatusCode, string(raw), op)
		var env types.Envelope
		if json.Unmarshal(raw, &env) == nil {
			herr.Message = env.Message
		}
		return resp.StatusCode, nil, herr
	}
	return resp.StatusCode, raw, nil
}

// doEnvelope performs a request whose response is the standard envelope. A
// success:false envelope is an error. When out is non-nil the envelope's
// data is decoded into it.
func doEnvelope(ctx context.Context, httpClient types.HTTPClient, method, url, op string, body, out any) error {
	status, raw, err := call(ctx, httpClient, method, url, op, body)
	if err != nil {
		return err
	}
	var env types.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return clienterrors.NewDecodeError(op, status, err)
	}
	if !env.Success {
		return clienterrors.NewEnvelopeError(status, env.Message, op)
	}
	if out == nil || isNull(env.Data) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return clienterrors.NewDecodeError(op, status, err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
