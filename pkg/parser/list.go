package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"

	"github.com/yaklabco/mdlite/pkg/mdast"
)

// listItem is one item found inside a list match.
type listItem struct {
	offset int // rune offset within the list match
	raw    string
}

// buildList splits a list match into items, strips each item's bullet and
// common indentation and tokenizes the item content as nested blocks.
// With smart lists, a change of bullet style ends the list; the remaining
// items stay in the input and start a new list.
func (b *blockRules) buildList(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	bull := m.Group(2)

	items, err := findItems(b.g.item, m.runes)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	consume := m.Len()
	last := len(items) - 1
	if b.opts.SmartLists {
		for i := 0; i < last; i++ {
			next, err := b.bulletOf(items[i+1].raw)
			if err != nil {
				return nil, err
			}
			if bull != next && !(len(bull) > 1 && len(next) > 1) {
				consume = items[i+1].offset
				items = items[:i+1]
				last = i
				break
			}
		}
	}

	src := c.Consume(consume)
	info := p.Info(m.Rule(), src)

	list := &mdast.ListToken{TokenInfo: info, Ordered: len(bull) > 1}
	if list.Ordered {
		list.Start, _ = strconv.Atoi(strings.TrimSuffix(bull, "."))
	}

	next := false
	for i, it := range items {
		content := b.itemContent(it.raw)

		loose := next || hasInnerBlankLine(content)
		if i != last {
			next = strings.HasSuffix(content, "\n")
			if !loose {
				loose = next
			}
		}

		itemSrc := src.Copy(it.raw, countNewlines(m.runes[:it.offset]))
		inner, err := p.TokenizeBlock(itemSrc.Copy(content, 0), false, c.InBlockquote)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, &mdast.ListItemToken{
			TokenInfo: p.Info(m.Rule(), itemSrc),
			Loose:     loose,
			Tokens:    inner,
		})
	}

	return list, nil
}

// itemContent strips the bullet and, for multi-line items, the
// continuation indent.
func (b *blockRules) itemContent(raw string) string {
	lead := 0
	for lead < len(raw) && raw[lead] == ' ' {
		lead++
	}
	rest := raw[lead:]
	marker := 0
	if rest != "" && strings.ContainsRune("*+-", rune(rest[0])) {
		marker = 1
	} else {
		for marker < len(rest) && rest[marker] >= '0' && rest[marker] <= '9' {
			marker++
		}
		marker++ // the dot
	}
	gap := marker
	for gap < len(rest) && rest[gap] == ' ' {
		gap++
	}
	content := rest[gap:]
	space := lead + gap

	if !strings.Contains(content, "\n ") {
		return content
	}
	if b.opts.Pedantic {
		space = 4
	}
	return stripIndent(content, space)
}

func (b *blockRules) bulletOf(item string) (string, error) {
	m, err := b.g.bullet.FindStringMatch(item)
	if err != nil || m == nil {
		return "", err
	}
	return m.String(), nil
}

func findItems(re *regexp2.Regexp, runes []rune) ([]listItem, error) {
	var items []listItem
	m, err := re.FindRunesMatch(runes)
	for m != nil && err == nil {
		items = append(items, listItem{offset: m.Index, raw: m.String()})
		m, err = re.FindNextMatch(m)
	}
	return items, err
}

// hasInnerBlankLine reports whether a blank line is followed by more
// content.
func hasInnerBlankLine(s string) bool {
	return strings.Contains(strings.TrimRightFunc(s, unicode.IsSpace), "\n\n")
}
