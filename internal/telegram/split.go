package telegram

import "unicode/utf16"

// Telegram ограничивает сообщение 4096 UTF-16 единицами; считаем так же.
const maxMessageLen = 4000

// splitText режет текст на куски не длиннее limit UTF-16 единиц, по возможности
// по переводу строки или пробелу во второй половине окна.
func splitText(text string, limit int) []string {
	runes := []rune(text)
	if utf16Len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > 0 && utf16Len(runes) > limit {
		end, half, size := 0, 0, 0
		for end < len(runes) {
			n := runeUnits(runes[end])
			if size+n > limit {
				break
			}
			size += n
			end++
			if size <= limit/2 {
				half = end
			}
		}
		if end == 0 {
			end = 1
		}

		cut := end
		if i := lastIndex(runes[:end], '\n'); i >= half {
			cut = i + 1
		} else if i := lastIndex(runes[:end], ' '); i >= half {
			cut = i + 1
		}

		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

func utf16Len(runes []rune) int {
	n := 0
	for _, r := range runes {
		n += runeUnits(r)
	}
	return n
}

func runeUnits(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

func lastIndex(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
