package input

// Linux EV_KEY scan codes, subset a keyboard-emulation barcode scanner
// can produce. Values from linux/input-event-codes.h.
const (
	Keycode1          uint16 = 2
	Keycode2          uint16 = 3
	Keycode3          uint16 = 4
	Keycode4          uint16 = 5
	Keycode5          uint16 = 6
	Keycode6          uint16 = 7
	Keycode7          uint16 = 8
	Keycode8          uint16 = 9
	Keycode9          uint16 = 10
	Keycode0          uint16 = 11
	KeycodeMinus      uint16 = 12
	KeycodeEqual      uint16 = 13
	KeycodeQ          uint16 = 16
	KeycodeW          uint16 = 17
	KeycodeE          uint16 = 18
	KeycodeR          uint16 = 19
	KeycodeT          uint16 = 20
	KeycodeY          uint16 = 21
	KeycodeU          uint16 = 22
	KeycodeI          uint16 = 23
	KeycodeO          uint16 = 24
	KeycodeP          uint16 = 25
	KeycodeLeftBrace  uint16 = 26
	KeycodeRightBrace uint16 = 27
	KeycodeEnter      uint16 = 28
	KeycodeA          uint16 = 30
	KeycodeS          uint16 = 31
	KeycodeD          uint16 = 32
	KeycodeF          uint16 = 33
	KeycodeG          uint16 = 34
	KeycodeH          uint16 = 35
	KeycodeJ          uint16 = 36
	KeycodeK          uint16 = 37
	KeycodeL          uint16 = 38
	KeycodeSemicolon  uint16 = 39
	KeycodeApostrophe uint16 = 40
	KeycodeGrave      uint16 = 41
	KeycodeLeftShift  uint16 = 42
	KeycodeBackslash  uint16 = 43
	KeycodeZ          uint16 = 44
	KeycodeX          uint16 = 45
	KeycodeC          uint16 = 46
	KeycodeV          uint16 = 47
	KeycodeB          uint16 = 48
	KeycodeN          uint16 = 49
	KeycodeM          uint16 = 50
	KeycodeComma      uint16 = 51
	KeycodeDot        uint16 = 52
	KeycodeSlash      uint16 = 53
	KeycodeRightShift uint16 = 54
	KeycodeSpace      uint16 = 57
)

// HID keyboards report case through shift state: unshifted letters are
// lowercase, shifted uppercase. Downstream consumers expect case-correct
// text, so the two tables must stay exact.
var keymapPlain = map[uint16]byte{
	Keycode1: '1', Keycode2: '2', Keycode3: '3', Keycode4: '4', Keycode5: '5',
	Keycode6: '6', Keycode7: '7', Keycode8: '8', Keycode9: '9', Keycode0: '0',
	KeycodeMinus: '-', KeycodeEqual: '=',
	KeycodeQ: 'q', KeycodeW: 'w', KeycodeE: 'e', KeycodeR: 'r', KeycodeT: 't',
	KeycodeY: 'y', KeycodeU: 'u', KeycodeI: 'i', KeycodeO: 'o', KeycodeP: 'p',
	KeycodeLeftBrace: '[', KeycodeRightBrace: ']',
	KeycodeA: 'a', KeycodeS: 's', KeycodeD: 'd', KeycodeF: 'f', KeycodeG: 'g',
	KeycodeH: 'h', KeycodeJ: 'j', KeycodeK: 'k', KeycodeL: 'l',
	KeycodeSemicolon: ';', KeycodeApostrophe: '\'', KeycodeGrave: '`',
	KeycodeBackslash: '\\',
	KeycodeZ: 'z', KeycodeX: 'x', KeycodeC: 'c', KeycodeV: 'v', KeycodeB: 'b',
	KeycodeN: 'n', KeycodeM: 'm',
	KeycodeComma: ',', KeycodeDot: '.', KeycodeSlash: '/',
	KeycodeSpace: ' ',
}

var keymapShift = map[uint16]byte{
	Keycode1: '!', Keycode2: '@', Keycode3: '#', Keycode4: '$', Keycode5: '%',
	Keycode6: '^', Keycode7: '&', Keycode8: '*', Keycode9: '(', Keycode0: ')',
	KeycodeMinus: '_', KeycodeEqual: '+',
	KeycodeQ: 'Q', KeycodeW: 'W', KeycodeE: 'E', KeycodeR: 'R', KeycodeT: 'T',
	KeycodeY: 'Y', KeycodeU: 'U', KeycodeI: 'I', KeycodeO: 'O', KeycodeP: 'P',
	KeycodeLeftBrace: '{', KeycodeRightBrace: '}',
	KeycodeA: 'A', KeycodeS: 'S', KeycodeD: 'D', KeycodeF: 'F', KeycodeG: 'G',
	KeycodeH: 'H', KeycodeJ: 'J', KeycodeK: 'K', KeycodeL: 'L',
	KeycodeSemicolon: ':', KeycodeApostrophe: '"', KeycodeGrave: '~',
	KeycodeBackslash: '|',
	KeycodeZ: 'Z', KeycodeX: 'X', KeycodeC: 'C', KeycodeV: 'V', KeycodeB: 'B',
	KeycodeN: 'N', KeycodeM: 'M',
	KeycodeComma: '<', KeycodeDot: '>', KeycodeSlash: '?',
	KeycodeSpace: ' ',
}

// Translate maps an EV_KEY scan code plus shift state to a printable
// ASCII byte. ok=false for codes outside the tables: the caller ignores
// those events.
func Translate(code uint16, shift bool) (byte, bool) {
	var c byte
	var ok bool
	if shift {
		c, ok = keymapShift[code]
	} else {
		c, ok = keymapPlain[code]
	}
	return c, ok
}

// Shift keys never produce a character themselves, they only flip the
// shift state tracked by the caller.
func IsShift(code uint16) bool {
	return code == KeycodeLeftShift || code == KeycodeRightShift
}
