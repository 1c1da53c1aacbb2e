package custom

// The http_tls module gives plugins an HTTP client whose TLS ClientHello mimics
// Chrome, for hosts that reject the Go TLS fingerprint.
//
//	http_tls.get(url [, headers])   -> body
//	http_tls.request(options)       -> {status, body}
//
// options: method, url, headers, body, cache (boolean).

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	utls "github.com/refraction-networking/utls"
	"github.com/urlresolver/urlresolver/constant"
	"github.com/urlresolver/urlresolver/internal/cache"
	"github.com/urlresolver/urlresolver/log"
	lua "github.com/yuin/gopher-lua"
	"golang.org/x/net/http2"
)

const tlsTimeout = 30 * time.Second

func registerTLSClient(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(tlsGet))
	L.SetField(mod, "request", L.NewFunction(tlsRequest))
	L.SetGlobal("http_tls", mod)
}

type tlsResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type tlsRequestOptions struct {
	method  string
	url     string
	body    string
	headers map[string]string
}

func tlsGet(L *lua.LState) int {
	opts := tlsRequestOptions{
		method:  http.MethodGet,
		url:     L.CheckString(1),
		headers: headersFromTable(L.OptTable(2, nil)),
	}

	resp, err := doTLSRequest(luaContext(L), opts)
	if err != nil {
		L.RaiseError("http_tls.get failed: %s", err.Error())
		return 0
	}

	L.Push(lua.LString(resp.Body))
	return 1
}

func tlsRequest(L *lua.LState) int {
	tbl := L.CheckTable(1)

	opts := tlsRequestOptions{
		method: strings.ToUpper(stringField(tbl, "method", http.MethodGet)),
		url:    stringField(tbl, "url", ""),
		body:   stringField(tbl, "body", ""),
	}
	if headers, ok := tbl.RawGetString("headers").(*lua.LTable); ok {
		opts.headers = headersFromTable(headers)
	}

	if opts.url == "" {
		L.RaiseError("http_tls.request: url is required")
		return 0
	}

	useCache := lua.LVAsBool(tbl.RawGetString("cache"))
	key := cache.GenerateKey(opts.url+opts.body, opts.method)

	var resp tlsResponse
	if !useCache || !cache.Read(key, &resp) {
		fetched, err := doTLSRequest(luaContext(L), opts)
		if err != nil {
			L.RaiseError("http_tls.request failed: %s", err.Error())
			return 0
		}
		resp = fetched

		if useCache && resp.Status == http.StatusOK {
			if err := cache.Write(key, resp); err != nil {
				log.Warnf("http_tls: cache %s: %v", opts.url, err)
			}
		}
	}

	result := L.NewTable()
	L.SetField(result, "status", lua.LNumber(resp.Status))
	L.SetField(result, "body", lua.LString(resp.Body))
	L.Push(result)
	return 1
}

func luaContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func stringField(tbl *lua.LTable, key, def string) string {
	val := tbl.RawGetString(key)
	if val == lua.LNil {
		return def
	}
	return val.String()
}

func headersFromTable(tbl *lua.LTable) map[string]string {
	headers := make(map[string]string)
	if tbl == nil {
		return headers
	}

	tbl.ForEach(func(k, v lua.LValue) {
		headers[k.String()] = v.String()
	})
	return headers
}

var (
	h2Client = &http.Client{
		Timeout: tlsTimeout,
		Transport: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialChrome(ctx, network, addr, nil)
			},
		},
	}

	h1Client = &http.Client{
		Timeout: tlsTimeout,
		Transport: &http.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialChrome(ctx, network, addr, []string{"http/1.1"})
			},
		},
	}
)

// doTLSRequest tries HTTP/2 first and falls back to HTTP/1.1 when the server does not negotiate h2.
func doTLSRequest(ctx context.Context, opts tlsRequestOptions) (tlsResponse, error) {
	newRequest := func() (*http.Request, error) {
		var body io.Reader
		if opts.body != "" {
			body = strings.NewReader(opts.body)
		}

		req, err := http.NewRequestWithContext(ctx, opts.method, opts.url, body)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("User-Agent", constant.UserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")
		for k, v := range opts.headers {
			req.Header.Set(k, v)
		}
		return req, nil
	}

	req, err := newRequest()
	if err != nil {
		return tlsResponse{}, err
	}

	resp, err := h2Client.Do(req)
	if err != nil {
		log.Debugf("http_tls: h2 request to %s failed, retrying over http/1.1: %v", opts.url, err)

		if req, err = newRequest(); err != nil {
			return tlsResponse{}, err
		}
		if resp, err = h1Client.Do(req); err != nil {
			return tlsResponse{}, fmt.Errorf("request failed: %w", err)
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tlsResponse{Status: resp.StatusCode}, fmt.Errorf("read body: %w", err)
	}

	return tlsResponse{Status: resp.StatusCode, Body: string(body)}, nil
}

// dialChrome opens a TLS connection with the Chrome 120 fingerprint. nextProtos overrides the ALPN list when set.
func dialChrome(ctx context.Context, network, addr string, nextProtos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: tlsTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: nextProtos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
