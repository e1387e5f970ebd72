package infra

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"launchpad_go/internal/domain"

	"github.com/disintegration/imaging"
)

const (
	// maxIconInputBytes bounds the decoded payload a requester can hand us.
	maxIconInputBytes = 1 << 20
	// iconEdge is the square edge every stored icon is fitted into.
	iconEdge = 96
)

// NormalizeIcon decodes a requester-supplied icon (a data URL or raw base64
// image), downscales anything larger than the standard edge and re-encodes
// it as a PNG data URL suitable for embedding in token metadata. An empty
// input passes through untouched; undecodable input is a metadata error.
func NormalizeIcon(icon string) (string, error) {
	if icon == "" {
		return "", nil
	}

	payload := icon
	if strings.HasPrefix(icon, "data:") {
		idx := strings.Index(icon, ",")
		if idx < 0 {
			return "", &domain.MetadataError{Field: "icon", Err: fmt.Errorf("malformed data URL")}
		}
		payload = icon[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", &domain.MetadataError{Field: "icon", Err: fmt.Errorf("invalid base64 payload: %w", err)}
	}
	if len(raw) > maxIconInputBytes {
		return "", &domain.MetadataError{Field: "icon", Err: fmt.Errorf("payload exceeds %d bytes", maxIconInputBytes)}
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", &domain.MetadataError{Field: "icon", Err: fmt.Errorf("undecodable image: %w", err)}
	}

	bounds := img.Bounds()
	if bounds.Dx() > iconEdge || bounds.Dy() > iconEdge {
		img = imaging.Fit(img, iconEdge, iconEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode icon: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
