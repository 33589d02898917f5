package keyfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mahdiidarabi/rsabench/pkg/rsabench"
)

// Format is a key file encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

const (
	publicKeyType  = "rsa-public-key"
	privateKeyType = "rsa-private-key"
)

// ErrFormat is returned for an unknown format name or file extension.
var ErrFormat = errors.New("unsupported key file format")

// ParseFormat maps "json", "yaml" or "yml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormat, s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	return string(f)
}

type publicKeyDoc struct {
	Type    string `json:"type" yaml:"type"`
	E       string `json:"e" yaml:"e"`
	N       string `json:"n" yaml:"n"`
	KeySize int    `json:"key_size" yaml:"key_size"`
}

type privateKeyDoc struct {
	Type string `json:"type" yaml:"type"`
	D    string `json:"d" yaml:"d"`
	N    string `json:"n" yaml:"n"`
}

// EncodePublicKey writes k to w.
func EncodePublicKey(w io.Writer, k *rsabench.PublicKey, f Format) error {
	return encode(w, publicKeyDoc{
		Type:    publicKeyType,
		E:       "0x" + k.E().Text(16),
		N:       "0x" + k.N().Text(16),
		KeySize: k.KeySize(),
	}, f)
}

// EncodePrivateKey writes k to w.
func EncodePrivateKey(w io.Writer, k *rsabench.PrivateKey, f Format) error {
	return encode(w, privateKeyDoc{
		Type: privateKeyType,
		D:    "0x" + k.D().Text(16),
		N:    "0x" + k.N().Text(16),
	}, f)
}

func encode(w io.Writer, doc interface{}, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrFormat, string(f))
	}
}

// DecodePublicKey reads a public key from r.
func DecodePublicKey(r io.Reader, f Format) (*rsabench.PublicKey, error) {
	item, err := decode(r, f)
	if err != nil {
		return nil, err
	}
	if err := checkType(item, publicKeyType); err != nil {
		return nil, err
	}

	e, err := bigField(item, "e")
	if err != nil {
		return nil, err
	}
	n, err := bigField(item, "n")
	if err != nil {
		return nil, err
	}
	keySize, err := bigField(item, "key_size")
	if err != nil {
		return nil, err
	}
	if !keySize.IsInt64() {
		return nil, fmt.Errorf("key_size out of range: %s", keySize.String())
	}
	return rsabench.NewPublicKey(e, n, int(keySize.Int64()))
}

// DecodePrivateKey reads a private key from r.
func DecodePrivateKey(r io.Reader, f Format) (*rsabench.PrivateKey, error) {
	item, err := decode(r, f)
	if err != nil {
		return nil, err
	}
	if err := checkType(item, privateKeyType); err != nil {
		return nil, err
	}

	d, err := bigField(item, "d")
	if err != nil {
		return nil, err
	}
	n, err := bigField(item, "n")
	if err != nil {
		return nil, err
	}
	return rsabench.NewPrivateKey(d, n)
}

func decode(r io.Reader, f Format) (map[string]interface{}, error) {
	var item map[string]interface{}
	switch f {
	case JSON:
		decoder := json.NewDecoder(r)
		decoder.UseNumber() // Preserve large numbers as json.Number instead of float64
		if err := decoder.Decode(&item); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&item); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, string(f))
	}
	if item == nil {
		return nil, errors.New("empty key file")
	}
	return item, nil
}

func checkType(item map[string]interface{}, want string) error {
	got, ok := item["type"].(string)
	if !ok {
		return errors.New("missing type field")
	}
	if got != want {
		return fmt.Errorf("wrong key type: got %q, want %q", got, want)
	}
	return nil
}

func bigField(item map[string]interface{}, field string) (*big.Int, error) {
	val, ok := item[field]
	if !ok {
		return nil, fmt.Errorf("missing %s field", field)
	}
	v, err := parseBigInt(val)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return v, nil
}

// parseBigInt parses a value that might be a hex string, decimal string, or number.
func parseBigInt(val interface{}) (*big.Int, error) {
	switch v := val.(type) {
	case string:
		s := strings.TrimSpace(v)
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			result, ok := new(big.Int).SetString(s[2:], 16)
			if !ok {
				return nil, fmt.Errorf("invalid hex string: %s", v)
			}
			return result, nil
		}
		result, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("invalid decimal string: %s", v)
		}
		return result, nil
	case json.Number:
		result, ok := new(big.Int).SetString(string(v), 10)
		if !ok {
			return nil, fmt.Errorf("invalid number: %s", v)
		}
		return result, nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// WritePublicKey writes k to path, choosing the format from the extension.
func WritePublicKey(path string, k *rsabench.PublicKey) error {
	return writeFile(path, 0o644, func(w io.Writer, f Format) error {
		return EncodePublicKey(w, k, f)
	})
}

// WritePrivateKey writes k to path with owner-only permissions.
func WritePrivateKey(path string, k *rsabench.PrivateKey) error {
	return writeFile(path, 0o600, func(w io.Writer, f Format) error {
		return EncodePrivateKey(w, k, f)
	})
}

// ReadPublicKey loads a public key file.
func ReadPublicKey(path string) (*rsabench.PublicKey, error) {
	var k *rsabench.PublicKey
	err := readFile(path, func(r io.Reader, f Format) error {
		var err error
		k, err = DecodePublicKey(r, f)
		return err
	})
	return k, err
}

// ReadPrivateKey loads a private key file.
func ReadPrivateKey(path string) (*rsabench.PrivateKey, error) {
	var k *rsabench.PrivateKey
	err := readFile(path, func(r io.Reader, f Format) error {
		var err error
		k, err = DecodePrivateKey(r, f)
		return err
	})
	return k, err
}

func writeFile(path string, perm os.FileMode, write func(io.Writer, Format) error) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := write(file, f); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

func readFile(path string, read func(io.Reader, Format) error) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	if err := read(file, f); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
