package local

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/noctonic/cyberchef-mcp-sse/engine"
)

// Builtins returns the built-in operation set. Names match the embedded
// default catalog.
func Builtins() []OpDef {
	return []OpDef{
		{Name: "To Base64", Handler: toBase64},
		{Name: "From Base64", OutputType: TypeByteArray, Handler: fromBase64},
		{Name: "To Hex", Handler: toHex},
		{Name: "From Hex", OutputType: TypeByteArray, Handler: fromHex},
		{Name: "ROT13", OutputType: TypeByteArray, Handler: rot13},
		{Name: "To Upper case", Handler: toUpper},
		{Name: "To Lower case", Handler: toLower},
		{Name: "Reverse", OutputType: TypeByteArray, Handler: reverse},
		{Name: "URL Encode", Handler: urlEncode},
		{Name: "URL Decode", Handler: urlDecode},
		{Name: "XOR", OutputType: TypeByteArray, Handler: xor},
		{Name: "MD5", Handler: md5Hash},
		{Name: "SHA2", Handler: sha2Hash},
		{Name: "Find / Replace", Handler: findReplace},
	}
}

func failed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", engine.ErrOperationFailed, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", engine.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// base64Alphabet maps the alphabets CyberChef offers onto encodings.
func base64Alphabet(alphabet string) (*base64.Encoding, error) {
	switch alphabet {
	case "A-Za-z0-9+/=":
		return base64.StdEncoding, nil
	case "A-Za-z0-9+/":
		return base64.RawStdEncoding, nil
	case "A-Za-z0-9-_", "A-Za-z0-9-_=":
		if strings.HasSuffix(alphabet, "=") {
			return base64.URLEncoding, nil
		}
		return base64.RawURLEncoding, nil
	default:
		return nil, invalid("unsupported Base64 alphabet %q", alphabet)
	}
}

func toBase64(_ context.Context, data []byte, args Args) ([]byte, error) {
	alphabet, err := args.String(0, "A-Za-z0-9+/=")
	if err != nil {
		return nil, err
	}
	enc, err := base64Alphabet(alphabet)
	if err != nil {
		return nil, err
	}
	return []byte(enc.EncodeToString(data)), nil
}

func fromBase64(_ context.Context, data []byte, args Args) ([]byte, error) {
	alphabet, err := args.String(0, "A-Za-z0-9+/=")
	if err != nil {
		return nil, err
	}
	removeNonAlphabet, err := args.Bool(1, true)
	if err != nil {
		return nil, err
	}
	strict, err := args.Bool(2, false)
	if err != nil {
		return nil, err
	}
	enc, err := base64Alphabet(alphabet)
	if err != nil {
		return nil, err
	}

	s := string(data)
	if removeNonAlphabet {
		urlSafe := strings.Contains(alphabet, "-_")
		s = strings.Map(func(r rune) rune {
			switch {
			case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '=':
				return r
			case urlSafe && (r == '-' || r == '_'):
				return r
			case !urlSafe && (r == '+' || r == '/'):
				return r
			}
			return -1
		}, s)
	}

	if strict {
		out, err := enc.Strict().DecodeString(s)
		if err != nil {
			return nil, failed("invalid Base64: %v", err)
		}
		return out, nil
	}

	s = strings.TrimRight(s, "=")
	out, err := enc.WithPadding(base64.NoPadding).DecodeString(s)
	if err != nil {
		return nil, failed("invalid Base64: %v", err)
	}
	return out, nil
}

// hexDelimiter returns the separator placed between bytes and the prefix
// placed before each byte.
func hexDelimiter(name string) (sep, prefix string, err error) {
	switch name {
	case "Space":
		return " ", "", nil
	case "Percent":
		return "", "%", nil
	case "Comma":
		return ",", "", nil
	case "Semi-colon":
		return ";", "", nil
	case "Colon":
		return ":", "", nil
	case "Line feed":
		return "\n", "", nil
	case "CRLF":
		return "\r\n", "", nil
	case "0x":
		return "", "0x", nil
	case "0x with comma":
		return ",", "0x", nil
	case `\x`:
		return "", `\x`, nil
	case "None":
		return "", "", nil
	default:
		return "", "", invalid("unsupported delimiter %q", name)
	}
}

func toHex(_ context.Context, data []byte, args Args) ([]byte, error) {
	delim, err := args.String(0, "Space")
	if err != nil {
		return nil, err
	}
	perLine, err := args.Int(1, 0)
	if err != nil {
		return nil, err
	}
	sep, prefix, err := hexDelimiter(delim)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for i, c := range data {
		if i > 0 {
			if perLine > 0 && i%perLine == 0 {
				b.WriteByte('\n')
			} else {
				b.WriteString(sep)
			}
		}
		b.WriteString(prefix)
		b.WriteString(hex.EncodeToString([]byte{c}))
	}
	return []byte(b.String()), nil
}

func fromHex(_ context.Context, data []byte, args Args) ([]byte, error) {
	delim, err := args.String(0, "Auto")
	if err != nil {
		return nil, err
	}

	s := string(data)
	if delim != "Auto" {
		sep, prefix, err := hexDelimiter(delim)
		if err != nil {
			return nil, err
		}
		if prefix != "" {
			s = strings.ReplaceAll(s, prefix, "")
		}
		if sep != "" {
			s = strings.ReplaceAll(s, sep, "")
		}
	} else {
		s = strings.NewReplacer("0x", "", "0X", "", `\x`, "").Replace(s)
	}
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return r
		}
		if delim == "Auto" || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	out, err := hex.DecodeString(s)
	if err != nil {
		return nil, failed("invalid hex: %v", err)
	}
	return out, nil
}

func rot13(_ context.Context, data []byte, args Args) ([]byte, error) {
	lower, err := args.Bool(0, true)
	if err != nil {
		return nil, err
	}
	upper, err := args.Bool(1, true)
	if err != nil {
		return nil, err
	}
	numbers, err := args.Bool(2, false)
	if err != nil {
		return nil, err
	}
	amount, err := args.Int(3, 13)
	if err != nil {
		return nil, err
	}

	rotate := func(c, base byte, size int) byte {
		n := (int(c-base) + amount) % size
		if n < 0 {
			n += size
		}
		return base + byte(n)
	}

	out := make([]byte, len(data))
	for i, c := range data {
		switch {
		case upper && 'A' <= c && c <= 'Z':
			c = rotate(c, 'A', 26)
		case lower && 'a' <= c && c <= 'z':
			c = rotate(c, 'a', 26)
		case numbers && '0' <= c && c <= '9':
			c = rotate(c, '0', 10)
		}
		out[i] = c
	}
	return out, nil
}

func toUpper(_ context.Context, data []byte, args Args) ([]byte, error) {
	scope, err := args.String(0, "All")
	if err != nil {
		return nil, err
	}

	// upperAfter upper-cases the first letter following any rune for which
	// boundary returns true, and the first letter of the input.
	upperAfter := func(boundary func(prev rune) bool) []byte {
		var b strings.Builder
		pending := true
		for _, r := range string(data) {
			if pending && unicode.IsLetter(r) {
				r = unicode.ToUpper(r)
				pending = false
			}
			if boundary(r) {
				pending = true
			}
			b.WriteRune(r)
		}
		return []byte(b.String())
	}

	switch scope {
	case "All":
		return []byte(strings.ToUpper(string(data))), nil
	case "Word":
		return upperAfter(unicode.IsSpace), nil
	case "Sentence":
		return upperAfter(func(r rune) bool { return r == '.' || r == '!' || r == '?' || r == '\n' }), nil
	case "Paragraph":
		return upperAfter(func(r rune) bool { return r == '\n' }), nil
	default:
		return nil, invalid("unsupported scope %q", scope)
	}
}

func toLower(_ context.Context, data []byte, _ Args) ([]byte, error) {
	return []byte(strings.ToLower(string(data))), nil
}

func reverse(_ context.Context, data []byte, args Args) ([]byte, error) {
	by, err := args.String(0, "Byte")
	if err != nil {
		return nil, err
	}

	switch by {
	case "Byte":
		out := make([]byte, len(data))
		for i, c := range data {
			out[len(data)-1-i] = c
		}
		return out, nil
	case "Character":
		runes := []rune(string(data))
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return []byte(string(runes)), nil
	case "Line":
		lines := strings.Split(string(data), "\n")
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
		return []byte(strings.Join(lines, "\n")), nil
	default:
		return nil, invalid("unsupported reverse mode %q", by)
	}
}

func percentEncode(s string, keep func(c byte) bool) string {
	const upperhex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keep(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func alnum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func urlEncode(_ context.Context, data []byte, args Args) ([]byte, error) {
	all, err := args.Bool(0, false)
	if err != nil {
		return nil, err
	}
	if all {
		return []byte(percentEncode(string(data), alnum)), nil
	}
	// encodeURI keeps reserved characters as well as unreserved ones.
	return []byte(percentEncode(string(data), func(c byte) bool {
		return alnum(c) || strings.IndexByte("-_.!~*'();/?:@&=+$,#", c) >= 0
	})), nil
}

func urlDecode(_ context.Context, data []byte, args Args) ([]byte, error) {
	plusAsSpace, err := args.Bool(0, true)
	if err != nil {
		return nil, err
	}
	s := string(data)
	if plusAsSpace {
		s = strings.ReplaceAll(s, "+", " ")
	}
	out, err := url.PathUnescape(s)
	if err != nil {
		return nil, failed("malformed URI sequence: %v", err)
	}
	return []byte(out), nil
}

// convertKey turns a toggle-string key into bytes according to its option.
func convertKey(value, option string) ([]byte, error) {
	switch option {
	case "Hex":
		h := strings.Map(func(r rune) rune {
			if strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return r
			}
			return -1
		}, value)
		if len(h)%2 == 1 {
			h = "0" + h
		}
		return hex.DecodeString(h)
	case "Decimal":
		return convertNumbers(value, 10)
	case "Binary":
		return convertNumbers(value, 2)
	case "Base64":
		return base64.StdEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(value, "="))
	case "UTF8":
		return []byte(value), nil
	case "Latin1":
		out := make([]byte, 0, len(value))
		for _, r := range value {
			if r > 0xff {
				return nil, invalid("character %q is outside Latin1", r)
			}
			out = append(out, byte(r))
		}
		return out, nil
	default:
		return nil, invalid("unsupported key format %q", option)
	}
}

func convertNumbers(value string, base int) ([]byte, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';' || r == ':'
	})
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, base, 8)
		if err != nil {
			return nil, invalid("bad key byte %q", f)
		}
		out = append(out, byte(n))
	}
	return out, nil
}

func xor(_ context.Context, data []byte, args Args) ([]byte, error) {
	keyValue, keyOption, err := args.Toggle(0, "Hex")
	if err != nil {
		return nil, err
	}
	scheme, err := args.String(1, "Standard")
	if err != nil {
		return nil, err
	}
	nullPreserving, err := args.Bool(2, false)
	if err != nil {
		return nil, err
	}
	key, err := convertKey(keyValue, keyOption)
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return data, nil
	}
	key = append([]byte(nil), key...)

	out := make([]byte, len(data))
	for i, x := range data {
		k := key[i%len(key)]
		var o byte
		if nullPreserving && (x == 0 || x == k) {
			o = x
		} else {
			o = x ^ k
		}
		out[i] = o

		switch scheme {
		case "Standard":
		case "Input differential":
			key[i%len(key)] = x
		case "Output differential":
			key[i%len(key)] = o
		case "Cascade":
			if i+1 < len(data) {
				key[(i+1)%len(key)] = x
			}
		default:
			return nil, invalid("unsupported scheme %q", scheme)
		}
	}
	return out, nil
}

func md5Hash(_ context.Context, data []byte, _ Args) ([]byte, error) {
	sum := md5.Sum(data)
	return []byte(hex.EncodeToString(sum[:])), nil
}

func sha2Hash(_ context.Context, data []byte, args Args) ([]byte, error) {
	size, err := args.String(0, "512")
	if err != nil {
		return nil, err
	}

	var h hash.Hash
	switch size {
	case "224":
		h = sha256.New224()
	case "256":
		h = sha256.New()
	case "384":
		h = sha512.New384()
	case "512":
		h = sha512.New()
	case "512/224":
		h = sha512.New512_224()
	case "512/256":
		h = sha512.New512_256()
	default:
		return nil, invalid("unsupported SHA2 size %q", size)
	}
	h.Write(data)
	return []byte(hex.EncodeToString(h.Sum(nil))), nil
}

func findReplace(_ context.Context, data []byte, args Args) ([]byte, error) {
	find, mode, err := args.Toggle(0, "Regex")
	if err != nil {
		return nil, err
	}
	replace, err := args.String(1, "")
	if err != nil {
		return nil, err
	}
	global, err := args.Bool(2, true)
	if err != nil {
		return nil, err
	}
	caseInsensitive, err := args.Bool(3, false)
	if err != nil {
		return nil, err
	}
	multiline, err := args.Bool(4, true)
	if err != nil {
		return nil, err
	}
	dotAll, err := args.Bool(5, false)
	if err != nil {
		return nil, err
	}

	pattern := find
	switch {
	case mode == "Regex":
	case strings.HasPrefix(mode, "Extended"):
		unquoted, err := strconv.Unquote(`"` + strings.ReplaceAll(find, `"`, `\"`) + `"`)
		if err != nil {
			return nil, invalid("bad escape sequence in %q", find)
		}
		pattern = regexp.QuoteMeta(unquoted)
	case mode == "Simple string":
		pattern = regexp.QuoteMeta(find)
	default:
		return nil, invalid("unsupported find mode %q", mode)
	}

	flags := ""
	if caseInsensitive {
		flags += "i"
	}
	if multiline {
		flags += "m"
	}
	if dotAll {
		flags += "s"
	}
	if flags != "" {
		pattern = "(?" + flags + ")" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, invalid("bad regular expression: %v", err)
	}

	s := string(data)
	if global {
		return []byte(re.ReplaceAllString(s, replace)), nil
	}
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return data, nil
	}
	var out []byte
	out = append(out, s[:loc[0]]...)
	out = re.ExpandString(out, replace, s, loc)
	out = append(out, s[loc[1]:]...)
	return out, nil
}
