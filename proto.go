package g50a

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	getCommand = "getRequest"
	setCommand = "setRequest"
)

// maxZones bounds the discovery probe. The protocol has no way to ask
// how many zones exist; ids past the installed count answer with an
// <ERROR> element, and 10 is the most a G50A drives.
const maxZones = 10

func buildRequest(command, mnets string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		"<Packet><Command>" + command + "</Command>" +
		"<DatabaseManager>" + mnets + "</DatabaseManager></Packet>"
}

func mnetQuery(zoneID string) string {
	return fmt.Sprintf(
		`<Mnet Group=%q SetTemp="*" InletTemp="*" Drive="*" Mode="*" FanSpeed="*" AirDirection="*" />`,
		zoneID,
	)
}

func buildGetRequest(zoneID string) string {
	return buildRequest(getCommand, mnetQuery(zoneID))
}

func buildBulkGetRequest(zoneCount int) string {
	var sb strings.Builder
	for id := 1; id <= zoneCount; id++ {
		sb.WriteString(mnetQuery(strconv.Itoa(id)))
	}
	return buildRequest(getCommand, sb.String())
}

type attr struct {
	name, value string
}

// buildSetRequest writes only the attributes being changed. The
// gateway leaves unmentioned attributes alone, so commands stay
// sparse.
func buildSetRequest(zoneID string, attrs ...attr) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<Mnet Group=%q`, zoneID)
	for _, a := range attrs {
		fmt.Fprintf(&sb, ` %s=%q`, a.name, a.value)
	}
	sb.WriteString("/>")
	return buildRequest(setCommand, sb.String())
}

// zoneRecord is one <Mnet> element as reported by the gateway. attrs
// holds exactly the attributes present in the response, so callers can
// tell absent from empty.
type zoneRecord struct {
	id    string
	attrs map[string]string
}

// parseResponse collects every <Mnet> element anywhere in the
// document. The gateway is unauthenticated HTTP on the LAN, so the
// document is untrusted: encoding/xml never fetches external entities,
// and strict mode rejects unknown ones.
func parseResponse(response string) ([]zoneRecord, error) {
	dec := xml.NewDecoder(strings.NewReader(response))
	var records []zoneRecord
	sawElement := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawElement = true
		if start.Name.Local != "Mnet" {
			continue
		}
		rec := zoneRecord{attrs: map[string]string{}}
		for _, a := range start.Attr {
			if a.Name.Local == "Group" {
				rec.id = a.Value
				continue
			}
			rec.attrs[a.Name.Local] = a.Value
		}
		if rec.id == "" {
			// an Mnet without a Group is addressed to nobody
			continue
		}
		records = append(records, rec)
	}
	if !sawElement {
		return nil, fmt.Errorf("%w: no root element", ErrProtocol)
	}
	return records, nil
}

// hasErrorMarker reports whether the document contains an <ERROR>
// element anywhere. The gateway answers probes for nonexistent zones
// this way; it is how enumeration knows to stop.
func hasErrorMarker(response string) (bool, error) {
	dec := xml.NewDecoder(strings.NewReader(response))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "ERROR" {
			return true, nil
		}
	}
}
