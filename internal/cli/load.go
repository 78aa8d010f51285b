package cli

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/telcoplan/hubgrid/pkg/errors"
	"github.com/telcoplan/hubgrid/pkg/geo"
)

// towerHeader is the required CSV header, in order.
var towerHeader = []string{"id", "lat", "lon", "county", "state", "carrier"}

// loadTowers reads tower records from a CSV or JSON file, chosen by
// extension. Every record is validated before it is returned.
func loadTowers(path string) ([]geo.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return readTowersJSON(f)
	case ".csv":
		return readTowersCSV(f)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported,
			"unsupported tower file %s (expected .csv or .json)", path)
	}
}

// readTowersCSV parses tower records from CSV with the header
// id,lat,lon,county,state,carrier.
func readTowersCSV(r io.Reader) ([]geo.Node, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty CSV input")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV header")
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var nodes []geo.Node
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV record")
		}

		line, _ := cr.FieldPos(0)
		lat, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: invalid latitude %q", line, record[1])
		}
		lon, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: invalid longitude %q", line, record[2])
		}

		node := geo.Node{
			ID:      record[0],
			Lat:     lat,
			Lon:     lon,
			County:  record[3],
			State:   record[4],
			Carrier: record[5],
		}
		if err := node.Validate(); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "line %d", line)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// readTowersJSON parses tower records from a JSON array.
func readTowersJSON(r io.Reader) ([]geo.Node, error) {
	var nodes []geo.Node
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&nodes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON towers")
	}
	for i, node := range nodes {
		if err := node.Validate(); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "tower %d", i)
		}
	}
	return nodes, nil
}

func checkHeader(header []string) error {
	if len(header) != len(towerHeader) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"CSV header must be %s", strings.Join(towerHeader, ","))
	}
	for i, name := range towerHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != name {
			return errors.New(errors.ErrCodeInvalidFormat,
				"CSV column %d must be %q, got %q", i+1, name, header[i])
		}
	}
	return nil
}
