package session

// KeyType identifies a key the session reacts to.
type KeyType int

const (
	KeyRune KeyType = iota
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyUp
	KeyDown
	KeyEnter
	KeyTab
	KeyEsc
	KeyCtrlC
	KeyHistory // ctrl+h
)

// Key is a single key press. Runes is set for KeyRune only.
type Key struct {
	Type  KeyType
	Runes []rune
}

// Runes builds a KeyRune key from text.
func Runes(s string) Key {
	return Key{Type: KeyRune, Runes: []rune(s)}
}

// Press builds a key without text.
func Press(t KeyType) Key {
	return Key{Type: t}
}

// is reports whether k is a single rune equal to one of rs.
func (k Key) is(rs ...rune) bool {
	if k.Type != KeyRune || len(k.Runes) != 1 {
		return false
	}
	for _, r := range rs {
		if k.Runes[0] == r {
			return true
		}
	}
	return false
}
