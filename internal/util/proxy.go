package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds the transport proxy function. Explicit proxy URLs
// win over environment variables; with none configured, the standard
// HTTP_PROXY/HTTPS_PROXY handling applies.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}
	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
