package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// eventTypes are the JSON-LD @type tags recognized as stage productions.
var eventTypes = map[string]bool{
	"Event":               true,
	"TheaterEvent":        true,
	"PerformingArtsEvent": true,
}

// JSONLD parses embedded JSON-LD blocks and returns one RawEvent per
// recognized event object. Malformed payloads contribute nothing; the
// result is empty rather than an error so the pipeline can proceed to the
// heuristic extractor.
func JSONLD(html, baseURL string) []RawEvent {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var events []RawEvent
	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, sel *goquery.Selection) {
		for _, obj := range decodeObjects(sel.Text()) {
			if evt, ok := eventFromObject(obj, baseURL); ok {
				events = append(events, evt)
			}
		}
	})
	return events
}

// decodeObjects decodes a JSON-LD payload into its top-level objects,
// expanding arrays and @graph containers.
func decodeObjects(payload string) []map[string]interface{} {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil
	}

	var root interface{}
	if err := json.Unmarshal([]byte(payload), &root); err != nil {
		return nil
	}

	var out []map[string]interface{}
	var walk func(v interface{})
	walk = func(v interface{}) {
		switch t := v.(type) {
		case []interface{}:
			for _, item := range t {
				walk(item)
			}
		case map[string]interface{}:
			out = append(out, t)
			if graph, ok := t["@graph"]; ok {
				walk(graph)
			}
		}
	}
	walk(root)
	return out
}

// eventFromObject maps one JSON-LD object to a RawEvent if its @type is a
// recognized event type.
func eventFromObject(obj map[string]interface{}, baseURL string) (RawEvent, bool) {
	if !hasEventType(obj["@type"]) {
		return RawEvent{}, false
	}

	evt := RawEvent{
		Title:     stringField(obj["name"]),
		URL:       stringField(obj["url"]),
		StartDate: stringField(obj["startDate"]),
		EndDate:   stringField(obj["endDate"]),
	}
	if evt.URL == "" {
		evt.URL = baseURL
	}
	if loc, ok := obj["location"].(map[string]interface{}); ok {
		evt.Venue = stringField(loc["name"])
	}
	if evt.StartDate != "" || evt.EndDate != "" {
		evt.DatesText = fmt.Sprintf("%s – %s", evt.StartDate, evt.EndDate)
	}
	return evt, true
}

func hasEventType(v interface{}) bool {
	switch t := v.(type) {
	case string:
		return eventTypes[t]
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && eventTypes[s] {
				return true
			}
		}
	}
	return false
}

func stringField(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
