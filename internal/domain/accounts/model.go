package accounts

import "fmt"

// Kind selects one of the two handle lists.
type Kind string

const (
	KindInstagram Kind = "insta"
	KindTelegram  Kind = "tg"
)

// ParseKind accepts the short callback names.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindInstagram, KindTelegram:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown account kind %q", s)
}

// Lists is the on-disk document; field names match the exported file.
type Lists struct {
	Instagram []string `json:"instagram"`
	Telegram  []string `json:"telegram"`
}
