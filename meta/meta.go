// Package meta is a convenience layer over a metadata repository checkout
// with accessors that assume the repository's standard layout (hardware
// configuration, detector databases, channel maps).
package meta

import (
	"context"
	"fmt"
	"time"

	textdb "github.com/mwantia/textdb"
	"github.com/mwantia/textdb/data"
	"github.com/mwantia/textdb/props"
)

// channelMapsPath is the repository location of the time-indexed channel
// map directory.
const channelMapsPath = "hardware/configuration/channelmaps"

// detectorPaths are the repository locations of the per-detector
// hardware databases merged into channel map entries.
var detectorPaths = []string{
	"hardware/detectors/germanium/diodes",
	"hardware/detectors/lar/sipms",
}

// Metadata is a repository checkout opened as a database. All node and
// query operations of the underlying DB are available directly.
type Metadata struct {
	*textdb.DB
}

// New obtains a checkout from the provider and opens it.
func New(ctx context.Context, provider Provider, opts ...textdb.Option) (*Metadata, error) {
	path, err := provider.Checkout(ctx)
	if err != nil {
		return nil, err
	}

	db, err := textdb.New(path, opts...)
	if err != nil {
		return nil, err
	}

	return &Metadata{DB: db}, nil
}

// ChannelMap returns the channel map valid at the given timestamp, with
// each entry enriched by the matching record of the hardware detector
// databases. An empty timestamp means now; an empty system means "all".
func (m *Metadata) ChannelMap(timestamp, system string) (*data.Document, error) {
	if timestamp == "" {
		timestamp = data.FormatTimestamp(time.Now().UTC())
	}

	value, err := m.Lookup(channelMapsPath)
	if err != nil {
		return nil, err
	}
	node, ok := value.Namespace()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a directory", data.ErrInvalidPath, channelMapsPath)
	}

	chmap, err := node.On(timestamp, "", system)
	if err != nil {
		return nil, err
	}

	detectors, err := m.detectorIndex()
	if err != nil {
		return nil, err
	}

	for _, name := range chmap.Keys() {
		raw, _ := chmap.Get(name)
		entry, ok := raw.(*data.Document)
		if !ok {
			continue
		}

		if detector, ok := detectors[name].(*data.Document); ok {
			props.Merge(entry, detector)
		}
	}

	return chmap, nil
}

// detectorIndex flattens the detector databases into one name-keyed
// remap. Detector databases absent from the checkout are skipped.
func (m *Metadata) detectorIndex() (data.Remap, error) {
	index := make(data.Remap)
	for _, path := range detectorPaths {
		value, err := m.Lookup(path)
		if err != nil {
			continue
		}
		node, ok := value.Namespace()
		if !ok {
			continue
		}

		if err := node.Scan(); err != nil {
			return nil, err
		}

		remap, err := node.Map("name")
		if err != nil {
			return nil, err
		}

		for key, detector := range remap {
			index[key] = detector
		}
	}

	return index, nil
}
