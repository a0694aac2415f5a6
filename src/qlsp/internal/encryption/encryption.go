// Package encryption implements the symmetric channel shared with the language server process.
package encryption

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	stderr "errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/uber/qchat-lsp/src/qlsp/internal/clock"
	"github.com/uber/qchat-lsp/src/qlsp/internal/errors"
	"go.uber.org/config"
	"go.uber.org/fx"
)

const (
	_configKey       = "encryption"
	_handshakeVer    = "1.0"
	_handshakeMode   = "JWT"
	_keySize         = 32
	_defaultTokenTTL = 60 * time.Second
)

// Module provides the process wide EncryptedChannel.
var Module = fx.Provide(New)

// Channel encrypts and decrypts payloads exchanged with the language server.
type Channel interface {
	// SendHandshake writes the key exchange line. It must be the first thing written to the server's stdin.
	SendHandshake(w io.Writer) error
	// Encrypt wraps v in a JWT and encrypts it with the channel key.
	Encrypt(v interface{}) (string, error)
	// Decrypt returns the payload carried by an encrypted token. Tokens whose header has typ JWT are
	// read as claims: the expiry is enforced and the data claim, when present, is the payload. Any
	// other token returns its plaintext unchanged.
	Decrypt(token string) (json.RawMessage, error)
}

// Params are inbound parameters to initialize a new Channel.
type Params struct {
	fx.In

	Config config.Provider
	Clock  clock.Clock `optional:"true"`
}

// Config holds the channel configuration.
type Config struct {
	TokenTTLSeconds int `yaml:"tokenTtlSeconds"`
}

type channel struct {
	clock    clock.Clock
	tokenTTL time.Duration

	keyOnce sync.Once
	key     []byte
	keyErr  error
}

type handshake struct {
	Version string `json:"version"`
	Key     string `json:"key"`
	Mode    string `json:"mode"`
}

type claims struct {
	jwt.Claims
	Data json.RawMessage `json:"data,omitempty"`
}

// New creates a Channel. The key is generated on first use and kept for the life of the process.
func New(p Params) (Channel, error) {
	cfg := Config{}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting encryption configuration: %w", err)
	}

	ttl := _defaultTokenTTL
	if cfg.TokenTTLSeconds > 0 {
		ttl = time.Duration(cfg.TokenTTLSeconds) * time.Second
	}

	c := p.Clock
	if c == nil {
		c = clock.New()
	}

	return &channel{
		clock:    c,
		tokenTTL: ttl,
	}, nil
}

func (c *channel) getKey() ([]byte, error) {
	c.keyOnce.Do(func() {
		key := make([]byte, _keySize)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			c.keyErr = fmt.Errorf("generating encryption key: %w", err)
			return
		}
		c.key = key
	})
	return c.key, c.keyErr
}

func (c *channel) SendHandshake(w io.Writer) error {
	key, err := c.getKey()
	if err != nil {
		return err
	}

	line, err := json.Marshal(handshake{
		Version: _handshakeVer,
		Key:     base64.StdEncoding.EncodeToString(key),
		Mode:    _handshakeMode,
	})
	if err != nil {
		return fmt.Errorf("marshalling handshake: %w", err)
	}
	if strings.ContainsAny(string(line), "\r\n") {
		return fmt.Errorf("handshake contains a line break")
	}

	if _, err := w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing handshake: %w", err)
	}

	switch f := w.(type) {
	case interface{ Flush() error }:
		return f.Flush()
	case interface{ Sync() error }:
		// Pipes do not support fsync.
		_ = f.Sync()
	}
	return nil
}

func (c *channel) Encrypt(v interface{}) (string, error) {
	key, err := c.getKey()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshalling payload: %w", err)
	}

	enc, err := jose.NewEncrypter(
		jose.A256GCM,
		jose.Recipient{Algorithm: jose.DIRECT, Key: key},
		(&jose.EncrypterOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("creating encrypter: %w", err)
	}

	now := c.clock.Now()
	return jwt.Encrypted(enc).Claims(claims{
		Claims: jwt.Claims{
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(c.tokenTTL)),
		},
		Data: data,
	}).Serialize()
}

func (c *channel) Decrypt(token string) (json.RawMessage, error) {
	key, err := c.getKey()
	if err != nil {
		return nil, err
	}

	parsed, err := jose.ParseEncryptedCompact(token, []jose.KeyAlgorithm{jose.DIRECT}, []jose.ContentEncryption{jose.A256GCM})
	if err != nil {
		return nil, &errors.DecodeError{Kind: errors.DecodeMalformed, Err: err}
	}

	plaintext, err := parsed.Decrypt(key)
	if err != nil {
		if stderr.Is(err, jose.ErrCryptoFailure) {
			return nil, &errors.DecodeError{Kind: errors.DecodeIntegrity, Err: err}
		}
		return nil, &errors.DecodeError{Kind: errors.DecodeMalformed, Err: err}
	}

	if typ, _ := parsed.Header.ExtraHeaders[jose.HeaderType].(string); !strings.EqualFold(typ, _handshakeMode) {
		return plaintext, nil
	}

	var cl claims
	if err := json.Unmarshal(plaintext, &cl); err != nil {
		// Not a claims object, the plaintext is the payload.
		return plaintext, nil
	}

	if err := cl.ValidateWithLeeway(jwt.Expected{Time: c.clock.Now()}, 0); err != nil {
		if stderr.Is(err, jwt.ErrExpired) {
			return nil, &errors.DecodeError{Kind: errors.DecodeExpired, Err: err}
		}
		return nil, &errors.DecodeError{Kind: errors.DecodeMalformed, Err: err}
	}

	if len(cl.Data) == 0 {
		return plaintext, nil
	}
	return cl.Data, nil
}
