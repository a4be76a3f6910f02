package engines

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/SierraSoftworks/ghbackup/cancel"
	"github.com/SierraSoftworks/ghbackup/cmnerr"
	"github.com/SierraSoftworks/ghbackup/entities"
)

const (
	httpUserAgent  = "ghbackup/1.0"
	streamChunkLen = 32 * 1024
)

// HttpFileEngine mirrors an HttpFile to a target path, short-circuiting
// on server last-modified-time or body SHA-256, and always writing via
// a temp file that is only promoted to its final name once complete.
type HttpFileEngine struct {
	http *fasthttp.Client
}

var _ Engine = &HttpFileEngine{}

// NewHttpFileEngine constructs an HttpFileEngine with a client
// configured to stream response bodies rather than buffer them fully,
// since downloaded assets may be large.
func NewHttpFileEngine() *HttpFileEngine {
	return &HttpFileEngine{
		http: &fasthttp.Client{
			StreamResponseBody:            true,
			MaxIdleConnDuration:           30 * time.Second,
			ReadTimeout:                   5 * time.Minute,
			WriteTimeout:                  60 * time.Second,
			NoDefaultUserAgentHeader:      true,
			DisablePathNormalizing:        true,
			MaxResponseBodySize:           0,
			MaxIdemponentCallAttempts:     1,
			DisableHeaderNamesNormalizing: false,
		},
	}
}

func (e *HttpFileEngine) Kind() string { return "http" }

func (e *HttpFileEngine) Backup(ctx context.Context, entity entities.Entity, toRoot string, cancelFlag *cancel.Flag) (BackupState, error) {
	file, ok := entity.(*entities.HttpFile)
	if !ok {
		return BackupState{}, cmnerr.System("http-file engine given a non-HttpFile entity")
	}

	target := filepath.Join(toRoot, file.TargetPath())
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return BackupState{}, cmnerr.User(fmt.Sprintf("unable to create backup directory '%s'", filepath.Dir(target))).
			WithSuggestions("make sure you have permission to create the directory").
			WithCause(err)
	}

	if file.LastModified != nil {
		if info, err := os.Stat(target); err == nil && !info.ModTime().Before(*file.LastModified) {
			return stateUnchanged("since " + info.ModTime().UTC().Format(time.RFC3339)), nil
		}
	}

	if cancelFlag != nil && cancelFlag.IsSet() {
		return SkippedState, nil
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(file.URL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", httpUserAgent)
	if file.ContentType != "" {
		req.Header.Set("Accept", file.ContentType)
	}
	applyHTTPAuth(req, file.Credentials)

	if err := e.http.Do(req, resp); err != nil {
		return BackupState{}, cmnerr.System(fmt.Sprintf("request to '%s' failed", file.URL)).WithCause(err)
	}

	if status := resp.StatusCode(); status < 200 || status >= 300 {
		return BackupState{}, cmnerr.User(fmt.Sprintf("unexpected response from '%s'", file.URL)).
			WithHTTPStatus(status, string(resp.Body()))
	}

	if cancelFlag != nil && cancelFlag.IsSet() {
		return SkippedState, nil
	}

	tempPath := target + ".tmp"
	tempFile, err := os.Create(tempPath)
	if err != nil {
		return BackupState{}, cmnerr.User(fmt.Sprintf("unable to create temporary file '%s'", tempPath)).
			WithSuggestions("make sure you have permission to write to the backup directory").
			WithCause(err)
	}

	digest := sha256.New()
	body := resp.BodyStream()

	buf := make([]byte, streamChunkLen)
	writeErr := streamCopy(body, tempFile, digest, buf, cancelFlag)
	closeErr := tempFile.Close()

	if writeErr == errCancelled {
		_ = os.Remove(tempPath)
		return SkippedState, nil
	}
	if writeErr != nil {
		_ = os.Remove(tempPath)
		return BackupState{}, cmnerr.User(fmt.Sprintf("write failed for '%s'", tempPath)).WithCause(writeErr)
	}
	if closeErr != nil {
		_ = os.Remove(tempPath)
		return BackupState{}, cmnerr.User(fmt.Sprintf("write failed for '%s'", tempPath)).WithCause(closeErr)
	}

	sum := hex.EncodeToString(digest.Sum(nil))

	sidecarPath := target + ".sha256"
	if existing, err := os.ReadFile(sidecarPath); err == nil && string(existing) == sum {
		_ = os.Remove(tempPath)
		return stateUnchanged("at sha256@" + sum), nil
	}

	detail := "at sha256:" + sum
	if file.LastModified != nil {
		detail = "at " + file.LastModified.UTC().Format(time.RFC3339)
	}

	state := stateNew(detail)
	if _, err := os.Stat(target); err == nil {
		if err := os.Remove(target); err != nil {
			_ = os.Remove(tempPath)
			return BackupState{}, cmnerr.System(fmt.Sprintf("unable to replace existing file '%s'", target)).WithCause(err)
		}
		state = stateUpdated(detail)
	}

	if err := os.Rename(tempPath, target); err != nil {
		return BackupState{}, cmnerr.System(fmt.Sprintf("unable to finalise download to '%s'", target)).WithCause(err)
	}
	if err := os.WriteFile(sidecarPath, []byte(sum), 0o644); err != nil {
		return BackupState{}, cmnerr.System(fmt.Sprintf("unable to write sidecar digest '%s'", sidecarPath)).WithCause(err)
	}

	return state, nil
}

var errCancelled = fmt.Errorf("cancelled")

// streamCopy reads from src in chunks, writing each to dst and to
// digest, checking cancelFlag between chunks.
func streamCopy(src io.Reader, dst io.Writer, digest io.Writer, buf []byte, cancelFlag *cancel.Flag) error {
	for {
		if cancelFlag != nil && cancelFlag.IsSet() {
			return errCancelled
		}
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
			if _, herr := digest.Write(buf[:n]); herr != nil {
				return herr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func applyHTTPAuth(req *fasthttp.Request, creds entities.Credentials) {
	switch creds.Kind {
	case entities.CredentialsToken:
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	case entities.CredentialsUserPass:
		auth := base64.StdEncoding.EncodeToString([]byte(creds.Username + ":" + creds.Password))
		req.Header.Set("Authorization", "Basic "+auth)
	}
}
