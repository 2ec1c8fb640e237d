package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vdobler/vizcore/hierarchy"
	"github.com/vdobler/vizcore/stat"
	"github.com/vdobler/vizcore/store"
)

const geo = `region,country,city
Europe,Netherlands,Amsterdam
Europe,Netherlands,Rotterdam
Europe,France,Paris
Asia,Japan,Tokyo
`

func newTestServer(t *testing.T) (*httptest.Server, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	srv := httptest.NewServer(New(st, Defaults{Whisker: stat.Tukey, Mode: hierarchy.Multi}, nil))
	t.Cleanup(srv.Close)
	return srv, st
}

func do(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(data, out), string(data))
	}
	return resp.StatusCode
}

func TestSlicerFlow(t *testing.T) {
	srv, st := newTestServer(t)

	var created createSlicerResponse
	code := do(t, "POST", srv.URL+"/slicers",
		`{"visual":"geo","levels":["region","country","city"],"selfFilter":true}`, &created)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "geo", created.Visual)
	base := srv.URL + "/slicers/" + created.ID.String()

	var e errorResponse
	assert.Equal(t, http.StatusConflict, do(t, "GET", base, "", &e))

	var view slicerView
	require.Equal(t, http.StatusOK, do(t, "PUT", base+"/data", geo, &view))
	assert.Len(t, view.Nodes, 9)
	assert.Equal(t, 2, view.Levels)
	assert.Equal(t, "null", string(view.Filter))

	require.Equal(t, http.StatusOK, do(t, "POST", base+"/toggle", `{"node":"Europe-0_France-1"}`, &view))
	assert.True(t, view.Changed)
	assert.Equal(t, `(region = "Europe" AND country = "France")`, view.FilterText)
	assert.JSONEq(t, `{"op":"and","args":[
		{"op":"eq","column":"region","value":"Europe"},
		{"op":"eq","column":"country","value":"France"}]}`, string(view.Filter))

	p, err := st.Load(testContext(t), "geo")
	require.NoError(t, err)
	assert.Equal(t, "Europe-0,Europe-0_France-1,Europe-0_France-1_Paris-2", p.Selected)

	require.Equal(t, http.StatusOK, do(t, "POST", base+"/toggle", `{"node":"Mars-0"}`, &view))
	assert.False(t, view.Changed)

	require.Equal(t, http.StatusOK, do(t, "POST", base+"/expand", `{"node":"Europe-0"}`, &view))
	hidden := 0
	for _, n := range view.Nodes {
		if n.Hidden {
			hidden++
		}
	}
	assert.Equal(t, 5, hidden)

	require.Equal(t, http.StatusOK, do(t, "POST", base+"/expand-all", "", &view))
	require.Equal(t, http.StatusOK, do(t, "POST", base+"/collapse-all", "", &view))

	require.Equal(t, http.StatusOK, do(t, "GET", base+"?search=par", "", &view))
	assert.Equal(t, "par", view.Search)
	assert.Len(t, view.Nodes, 3)

	var cleared slicerView
	require.Equal(t, http.StatusOK, do(t, "POST", base+"/clear", "", &cleared))
	assert.Empty(t, cleared.FilterText)
	assert.Equal(t, "null", string(cleared.Filter))
}

func TestSlicerErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	var e errorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, "POST", srv.URL+"/slicers", `{"levels":[]}`, &e))
	assert.Equal(t, http.StatusBadRequest, do(t, "POST", srv.URL+"/slicers", `{"levels":["a"],"mode":"all"}`, &e))
	assert.Equal(t, http.StatusBadRequest, do(t, "POST", srv.URL+"/slicers", `{`, &e))
	assert.Equal(t, http.StatusNotFound, do(t, "GET", srv.URL+"/slicers/nope", "", &e))
	assert.Equal(t, http.StatusNotFound,
		do(t, "GET", srv.URL+"/slicers/6f1f4a39-8a43-4c70-9d55-1a3a35a4b7a1", "", &e))

	var created createSlicerResponse
	require.Equal(t, http.StatusCreated, do(t, "POST", srv.URL+"/slicers", `{"levels":["region","planet"]}`, &created))
	assert.Equal(t, created.ID.String(), created.Visual)
	assert.Equal(t, http.StatusBadRequest, do(t, "PUT", srv.URL+"/slicers/"+created.ID.String()+"/data", geo, &e))
	assert.Contains(t, e.Error, "planet")
}

func TestBoxPlot(t *testing.T) {
	srv, _ := newTestServer(t)
	body := "site,load\na,1\na,2\na,3\na,4\na,5\na,6\na,7\na,8\na,9\na,100\nb,4\nb,6\n"

	var view boxPlotView
	require.Equal(t, http.StatusOK, do(t, "POST", srv.URL+"/boxplot?category=site&value=load&outliers=true", body, &view))
	require.Len(t, view.Boxes, 2)

	a, b := view.Boxes[0], view.Boxes[1]
	assert.Equal(t, "tukey", a.Whisker)
	assert.Equal(t, 9.0, a.Max)
	assert.Equal(t, []float64{100}, a.Outliers)
	require.NotNil(t, a.Quartile1)
	assert.InDelta(t, 3.25, *a.Quartile1, 1e-12)

	assert.Equal(t, "minmax", b.Whisker)
	assert.Nil(t, b.Quartile1)
	assert.Equal(t, []string{"6", "4", "5"}, b.DataLabels)

	assert.Equal(t, 0.0, view.Axis.Min)
	assert.Equal(t, 120.0, view.Axis.Max)

	var e errorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, "POST", srv.URL+"/boxplot?category=site&value=load&whisker=box", body, &e))
	assert.Equal(t, http.StatusBadRequest, do(t, "POST", srv.URL+"/boxplot?category=site&value=weight", body, &e))
}

func TestAxis(t *testing.T) {
	srv, _ := newTestServer(t)

	var view axisView
	require.Equal(t, http.StatusOK, do(t, "GET", srv.URL+"/axis?min=0&max=0", "", &view))
	assert.Equal(t, 1.0, view.Max)
	assert.Equal(t, []string{"0.0", "0.2", "0.4", "0.6", "0.8", "1.0"}, view.Labels)

	require.Equal(t, http.StatusOK, do(t, "GET", srv.URL+"/axis?min=1&max=10", "", &view))
	assert.Equal(t, 12, view.TickCount)

	var e errorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, "GET", srv.URL+"/axis?min=x&max=1", "", &e))
}

// testContext stands in for testing.T.Context (Go 1.24): the context is
// canceled when the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
