package chunk

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"starmus/internal/core/domain"
)

// Decode normalizes a wire payload to raw bytes. Base64 payloads may carry a data url prefix.
func Decode(encoding domain.ChunkEncoding, payload []byte) ([]byte, error) {
	switch encoding {
	case domain.ChunkEncodingMultipart:
		return payload, nil
	case domain.ChunkEncodingBase64JSON:
		text := bytes.TrimSpace(payload)
		if bytes.HasPrefix(text, []byte("data:")) {
			comma := bytes.IndexByte(text, ',')
			if comma < 0 || !bytes.HasSuffix(text[:comma], []byte(";base64")) {
				return nil, fmt.Errorf("%w: malformed data url", domain.ErrInvalidChunk)
			}
			text = text[comma+1:]
		}
		decoded := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
		n, err := base64.StdEncoding.Decode(decoded, text)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 payload: %w", domain.ErrInvalidChunk, err)
		}
		return decoded[:n], nil
	default:
		return nil, fmt.Errorf("%w: unknown encoding %q", domain.ErrInvalidChunk, encoding)
	}
}
