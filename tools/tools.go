package tools

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func EncryptTextSHA512(text string) string {
	sum := sha512.Sum512([]byte(text))
	return hex.EncodeToString(sum[:])
}

// EncodePassword aplica o esquema email:hash usado no login e no seed.
func EncodePassword(email, password string) string {
	encoded := EncryptTextSHA512(password)
	encoded = email + ":" + encoded
	return EncryptTextSHA512(encoded)
}

// RemoveDiacritics tira acentos do texto (ex: "liberação" -> "liberacao").
func RemoveDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// NormalizeText prepara texto para comparação: sem acentos, minúsculo, sem
// espaços nas pontas.
func NormalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(RemoveDiacritics(text)))
}
