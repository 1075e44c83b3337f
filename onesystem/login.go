package onesystem

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// The IAM login page carries its RSA public key inside a script file and a
// per-session chain code inside the page markup. Both are scraped the same
// way the browser-side code consumes them.

var loginScriptRe = regexp.MustCompile(`src="([^"]*login[^"]*\.js[^"]*)"`)

// rsaPublicKeyFromScript extracts the PEM public key from the login script:
// the non-comment line calling encrypt.setPublicKey('…').
func rsaPublicKeyFromScript(content string) (*rsa.PublicKey, error) {
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, "encrypt.setPublicKey") || strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		parts := strings.Split(line, "'")
		if len(parts) < 2 {
			continue
		}
		pemText := "-----BEGIN PUBLIC KEY-----\n" + parts[1] + "\n-----END PUBLIC KEY-----"
		block, _ := pem.Decode([]byte(pemText))
		if block == nil {
			return nil, errors.New("malformed public key block")
		}
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, errors.New("public key is not RSA")
		}
		return rsaKey, nil
	}
	return nil, errors.New("no setPublicKey call in login script")
}

// authChainCode extracts the spAuthChainCode1 value embedded in the login page.
func authChainCode(page string) string {
	for _, line := range strings.Split(page, "\n") {
		if !strings.Contains(line, `"#spAuthChainCode1"`) {
			continue
		}
		parts := strings.Split(line, "'")
		if len(parts) >= 2 {
			return parts[1]
		}
	}
	return ""
}

// encryptPassword RSA-encrypts the password with PKCS#1 v1.5 and base64s it,
// mirroring the browser-side JSEncrypt call.
func encryptPassword(key *rsa.PublicKey, password string) (string, error) {
	crypted, err := rsa.EncryptPKCS1v15(rand.Reader, key, []byte(password))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(crypted), nil
}

// Login runs the portal authentication handshake and leaves the session
// cookies in the client's jar. The arrangement fetcher only ever reads the
// session afterwards.
func (c *Client) Login(ctx context.Context, studentNo, password string) error {
	// Landing on the portal root redirects to the IAM login page.
	page, pageURL, err := c.get(ctx, c.baseURL+"/")
	if err != nil {
		return fmt.Errorf("load login page: %w", err)
	}

	m := loginScriptRe.FindStringSubmatch(page)
	if m == nil {
		return errors.New("login script not found on login page")
	}
	scriptURL, err := pageURL.Parse(m[1])
	if err != nil {
		return fmt.Errorf("resolve login script url: %w", err)
	}
	script, _, err := c.get(ctx, scriptURL.String())
	if err != nil {
		return fmt.Errorf("load login script: %w", err)
	}

	key, err := rsaPublicKeyFromScript(script)
	if err != nil {
		return err
	}
	encrypted, err := encryptPassword(key, password)
	if err != nil {
		return fmt.Errorf("encrypt password: %w", err)
	}

	form := url.Values{
		"username":        {studentNo},
		"password":        {encrypted},
		"spAuthChainCode": {authChainCode(page)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pageURL.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit credentials: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("submit credentials: HTTP %d", resp.StatusCode)
	}

	// The gateway bounces through the portal root once more to mint the
	// service session; a failed login lands back on the IAM page instead.
	landing, landingURL, err := c.get(ctx, c.baseURL+"/")
	if err != nil {
		return fmt.Errorf("establish session: %w", err)
	}
	if strings.Contains(landing, `"#spAuthChainCode1"`) || strings.Contains(landingURL.Path, "login") {
		return errors.New("login rejected, check student number and password")
	}

	c.log.Info("portal login ok", zap.String("studentNo", studentNo))
	return nil
}

// get fetches a URL following redirects and returns the body plus the final
// URL after redirects.
func (c *Client) get(ctx context.Context, rawURL string) (string, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("GET %s: HTTP %d", rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}
	return string(body), resp.Request.URL, nil
}
