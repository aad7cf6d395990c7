package scraper

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"electwatch/internal"
	"electwatch/internal/util"
)

const (
	cardSelector    = "div.card-custom"
	sectionSelector = "h3"
	labelSelector   = "p.text-black-50"
)

// ParseCards extracts unit cards in page order. Each card is tagged with the
// nearest preceding section header; cards under a header containing
// inProgressMarker are marked in progress.
func ParseCards(r io.Reader, inProgressMarker string) ([]internal.UnitCard, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	out := []internal.UnitCard{}
	section := ""
	doc.Find(sectionSelector + "," + cardSelector).Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == sectionSelector {
			section = util.NormalizeSpaces(sel.Text())
			return
		}

		title := sel.Find("h4").First()
		if title.Length() == 0 {
			return
		}

		card := internal.UnitCard{
			RawName:    util.NormalizeSpaces(title.Text()),
			Section:    section,
			InProgress: inProgressMarker != "" && strings.Contains(section, inProgressMarker),
		}
		sel.Find(labelSelector).Each(func(_ int, label *goquery.Selection) {
			value := label.NextAllFiltered("h5").First()
			if value.Length() == 0 {
				return
			}
			card.Values = append(card.Values, internal.LabeledValue{
				Label: util.NormalizeSpaces(label.Text()),
				Value: util.NormalizeSpaces(value.Text()),
			})
		})
		out = append(out, card)
	})

	return out, nil
}
