package ingest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsp-sag/network-wrangler-sub001/ingest"
)

const linksCSV = `model_link_id,A,B,name,rail_only,bus_only,drive_access,bike_access,walk_access,truck_access,distance,roadway,projects,managed,shape_id,lanes,price,sc_lanes,sc_price,ML_projects,ML_lanes,ML_price,ML_access,ML_access_point,ML_egress_point,sc_ML_lanes,sc_ML_price,sc_ML_access,ML_shape_id,osm_link_id
10,1,2,Main St,false,false,true,true,true,false,1.2,residential,,0,,2,0.0,,,,,,,false,false,,,,,
`

const nodesCSV = `model_node_id,X,Y,osm_node_id,projects,is_stop
1,0,0,,,false
2,1,0,,,false
`

func TestReadLinksDecodesScalarFields(t *testing.T) {
	links, err := ingest.ReadLinks(strings.NewReader(linksCSV))
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, 10, links[0].ModelLinkID)
	assert.Equal(t, "Main St", links[0].Name)
	assert.Equal(t, 2, links[0].Lanes)
}

const linksCSVWithScope = `model_link_id,A,B,name,rail_only,bus_only,drive_access,bike_access,walk_access,truck_access,distance,roadway,projects,managed,shape_id,lanes,price,sc_lanes,sc_price,ML_projects,ML_lanes,ML_price,ML_access,ML_access_point,ML_egress_point,sc_ML_lanes,sc_ML_price,sc_ML_access,ML_shape_id,osm_link_id
10,1,2,Main St,false,false,true,true,true,false,1.2,residential,,0,,2,0.0,"[{""category"":""truck"",""timespan"":[""06:00"",""09:00""],""value"":1}]",,,,,,false,false,,,,,
`

func TestReadLinksDecodesScopedCells(t *testing.T) {
	links, err := ingest.ReadLinks(strings.NewReader(linksCSVWithScope))
	require.NoError(t, err)
	require.Len(t, links[0].ScLanes, 1)
	assert.Equal(t, "truck", links[0].ScLanes[0].Category)
}

func TestReadNodesDecodesPoints(t *testing.T) {
	nodes, err := ingest.ReadNodes(strings.NewReader(nodesCSV))
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, 1.0, nodes[1].Point.X)
}

func TestReadNetworkAssignsAndValidates(t *testing.T) {
	net, err := ingest.ReadNetwork(strings.NewReader(linksCSV), strings.NewReader(nodesCSV), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, net.Links.Len())
	assert.Equal(t, 2, net.Nodes.Len())
}

const agenciesCSV = `agency_id,agency_name,agency_url,agency_timezone
A1,Metro,http://example.com,America/Los_Angeles
`

const routesCSV = `route_id,agency_id,route_short_name,route_long_name,route_type,projects
R1,A1,1,First Route,3,
`

const tripsCSV = `trip_id,shape_id,direction_id,service_id,route_id,projects
T1,S1,0,weekday,R1,
`

const shapesCSV = `shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence,shape_model_node_id,projects
S1,0,0,0,1,
S1,0,0,1,2,
`

const stopsCSV = `stop_id,stop_id_gtfs,stop_lat,stop_lon,projects
1,stop-one,0,0,
2,stop-two,0,0,
`

const stopTimesCSV = `trip_id,stop_id,stop_sequence,pickup_type,drop_off_type,arrival_time,departure_time,projects
T1,1,0,0,0,06:00:00,06:00:00,
T1,2,1,0,0,06:05:00,06:05:00,
`

func TestReadFeedAssignsAndValidates(t *testing.T) {
	feed, err := ingest.ReadFeed(
		strings.NewReader(agenciesCSV),
		strings.NewReader(routesCSV),
		strings.NewReader(tripsCSV),
		strings.NewReader(shapesCSV),
		strings.NewReader(stopsCSV),
		strings.NewReader(stopTimesCSV),
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, 1, feed.Routes.Len())
	assert.Equal(t, 1, feed.Trips.Len())
	assert.Equal(t, 2, feed.StopTimes.Len())
}
