package evmerrors

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ParseRevertReason decodes an ABI encoded revert payload. Both Error(string)
// and Panic(uint256) payloads are understood.
func ParseRevertReason(data []byte) (string, error) {
	if len(data) < 4 {
		return "", fmt.Errorf("revert data too short: expected at least 4 bytes for selector, got %d", len(data))
	}
	reason, err := abi.UnpackRevert(data)
	if err != nil {
		return "", fmt.Errorf("unpacking revert data: %w", err)
	}
	return reason, nil
}

// ExtractRevertData extracts hex revert data from common error message formats:
//   - Raw hex: "0x08c379a0..."
//   - Geth format: "execution reverted: 0x08c379a0..."
//   - FVM format: "vm error=[0x08c379a0...]"
//   - "revert 0x08c379a0..."
//
// It returns an empty string when no hex payload of at least a selector is found.
func ExtractRevertData(errMsg string) string {
	errMsg = strings.TrimSpace(errMsg)

	if strings.HasPrefix(errMsg, "0x") {
		return selectorOrEmpty(extractFirstHexString(errMsg))
	}

	for _, marker := range []string{"execution reverted:", "vm error=[", "revert "} {
		idx := strings.Index(errMsg, marker)
		if idx == -1 {
			continue
		}
		remaining := strings.TrimSpace(errMsg[idx+len(marker):])
		if strings.HasPrefix(remaining, "0x") {
			return selectorOrEmpty(extractFirstHexString(remaining))
		}
	}
	return ""
}

func selectorOrEmpty(hexData string) string {
	// "0x" + 8 hex chars of selector
	if len(hexData) < 10 || len(hexData)%2 != 0 {
		return ""
	}
	return hexData
}

// extractFirstHexString extracts the first valid hex string from input
func extractFirstHexString(s string) string {
	if !strings.HasPrefix(s, "0x") {
		return ""
	}
	end := 2
	for end < len(s) && isHexChar(s[end]) {
		end++
	}
	return s[:end]
}

func isHexChar(c byte) bool {
	return (c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'f') ||
		(c >= 'A' && c <= 'F')
}
