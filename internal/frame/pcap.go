package frame

import (
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// PcapReader reads 802.11 data frames from a pcap capture. Only captures with
// a raw 802.11 or radiotap link type are supported.
//
// A frame's Source is its transmitter address and Destination its receiver
// address, so the station-to-AP and AP-to-station legs of the same transfer
// are distinct links with their own offsets. Length is the 802.11 frame
// length without any radiotap header, which varies per frame.
type PcapReader struct {
	r        *pcapgo.Reader
	linkType layers.LinkType
	skipped  int
}

// NewPcapReader opens a capture stream.
func NewPcapReader(r io.Reader) (*PcapReader, error) {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("frame: open capture: %w", err)
	}
	lt := pr.LinkType()
	switch lt {
	case layers.LinkTypeIEEE802_11, layers.LinkTypeIEEE80211Radio:
	default:
		return nil, fmt.Errorf("frame: unsupported link type %s", lt)
	}
	return &PcapReader{r: pr, linkType: lt}, nil
}

// Next returns the next 802.11 data frame travelling to or from the
// distribution system. Other frames are passed over silently.
func (p *PcapReader) Next() (Frame, error) {
	for {
		data, _, err := p.r.ReadPacketData()
		if err != nil {
			return Frame{}, err
		}
		if f, ok := p.decode(data); ok {
			return f, nil
		}
		p.skipped++
	}
}

// Skipped returns how many captured packets were not data frames.
func (p *PcapReader) Skipped() int { return p.skipped }

func (p *PcapReader) decode(data []byte) (Frame, bool) {
	packet := gopacket.NewPacket(data, p.linkType, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
	dot11, ok := packet.Layer(layers.LayerTypeDot11).(*layers.Dot11)
	if !ok {
		return Frame{}, false
	}
	if dot11.Type.MainType() != layers.Dot11TypeData {
		return Frame{}, false
	}
	if dot11.Flags.ToDS() == dot11.Flags.FromDS() {
		return Frame{}, false
	}
	return Frame{
		Source:      dot11.Address2.String(),
		Destination: dot11.Address1.String(),
		Length:      len(dot11.Contents) + len(dot11.Payload),
	}, true
}
