package g50a

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildGetRequest(t *testing.T) {
	require.Equal(
		t,
		`<?xml version="1.0" encoding="UTF-8"?>`+
			`<Packet><Command>getRequest</Command><DatabaseManager>`+
			`<Mnet Group="2" SetTemp="*" InletTemp="*" Drive="*" Mode="*" FanSpeed="*" AirDirection="*" />`+
			`</DatabaseManager></Packet>`,
		buildGetRequest("2"),
	)
}

func TestBuildBulkGetRequest(t *testing.T) {
	body := buildBulkGetRequest(3)
	require.Contains(t, body, `<Command>getRequest</Command>`)
	require.Contains(t, body, `Group="1"`)
	require.Contains(t, body, `Group="2"`)
	require.Contains(t, body, `Group="3"`)
	require.NotContains(t, body, `Group="4"`)
}

func TestBuildSetRequest(t *testing.T) {
	body := buildSetRequest("1", attr{"SetTemp", "21.5"})
	require.Contains(t, body, `<Command>setRequest</Command>`)
	require.Contains(t, body, `<Mnet Group="1" SetTemp="21.5"/>`)

	body = buildSetRequest("3", attr{"Drive", "ON"}, attr{"Mode", "COOL"})
	require.Contains(t, body, `<Mnet Group="3" Drive="ON" Mode="COOL"/>`)
}

func TestParseResponse(t *testing.T) {
	records, err := parseResponse(`<?xml version="1.0" encoding="UTF-8"?>
		<Packet><Command>getResponse</Command><DatabaseManager>
			<Mnet Group="1" SetTemp="21.5" InletTemp="23.0" Drive="ON" Mode="COOL" FanSpeed="LOW" AirDirection="SWING"/>
			<Mnet Group="2" Drive="OFF"/>
		</DatabaseManager></Packet>`)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "1", records[0].id)
	require.Equal(t, "21.5", records[0].attrs["SetTemp"])
	require.Equal(t, "SWING", records[0].attrs["AirDirection"])

	require.Equal(t, "2", records[1].id)
	require.Equal(t, "OFF", records[1].attrs["Drive"])
	_, ok := records[1].attrs["SetTemp"]
	require.False(t, ok, "absent attributes must stay absent")
}

func TestParseResponseNoMnet(t *testing.T) {
	records, err := parseResponse(`<Packet><Command>getResponse</Command><DatabaseManager/></Packet>`)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestParseResponseMalformed(t *testing.T) {
	_, err := parseResponse(`<Packet><Mnet Group="1"`)
	require.ErrorIs(t, err, ErrProtocol)

	_, err = parseResponse("")
	require.ErrorIs(t, err, ErrProtocol)

	_, err = parseResponse("not xml at all")
	require.ErrorIs(t, err, ErrProtocol)
}

func TestHasErrorMarker(t *testing.T) {
	ok, err := hasErrorMarker(`<Packet><ERROR Point="4"/></Packet>`)
	require.NoError(t, err)
	require.True(t, ok)

	// an error marker wins even next to valid Mnet content
	ok, err = hasErrorMarker(`<Packet><Mnet Group="1" Drive="ON"/><ERROR/></Packet>`)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = hasErrorMarker(`<Packet><Mnet Group="1" Drive="ON"/></Packet>`)
	require.NoError(t, err)
	require.False(t, ok)
}
