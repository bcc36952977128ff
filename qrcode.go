package main

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256 // pixels

// SpectateURL is the link a viewer opens to watch an arena
func SpectateURL(publicURL, arenaID string) string {
	return strings.TrimRight(publicURL, "/") + "/" + arenaID
}

// SpectateQR renders the spectate link for an arena as a PNG
func SpectateQR(publicURL, arenaID string) ([]byte, error) {
	png, err := qrcode.Encode(SpectateURL(publicURL, arenaID), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr for %s: %w", arenaID, err)
	}
	return png, nil
}
