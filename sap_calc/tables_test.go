package sap_calc

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableFiles copies the embedded tables into a map file system.
func tableFiles(t *testing.T) fstest.MapFS {
	t.Helper()
	sub, err := fs.Sub(embeddedTables, "data")
	require.NoError(t, err)
	files := fstest.MapFS{}
	entries, err := fs.ReadDir(sub, ".")
	require.NoError(t, err)
	for _, e := range entries {
		b, err := fs.ReadFile(sub, e.Name())
		require.NoError(t, err)
		files[e.Name()] = &fstest.MapFile{Data: b}
	}
	return files
}

func TestDefaultTables(t *testing.T) {
	a := testTables(t)
	b := testTables(t)
	assert.Same(t, a, b)

	for _, code := range []int{101, 104, 192, 402, 605, 691, 693} {
		_, err := a.System(code)
		assert.NoError(t, err, "system %d", code)
	}
	for _, region := range []int{0, 1, 13} {
		r, err := a.Region(region)
		require.NoError(t, err)
		assert.Positive(t, r.WindSpeed[0])
	}
	_, ok := a.Adjustment(AdjBoilerInterlock, "no_interlock")
	assert.True(t, ok)
	_, ok = a.Adjustment(AdjBoilerInterlock, "nothing")
	assert.False(t, ok)
	assert.Equal(t, DefaultCommunityConstants, a.Community)
}

func TestTableLookupErrors(t *testing.T) {
	tables := testTables(t)

	_, err := tables.System(1)
	assert.ErrorIs(t, err, ErrInput)
	_, err = tables.WaterHeater(901)
	assert.ErrorIs(t, err, ErrInput)
	_, err = tables.Control(0)
	assert.ErrorIs(t, err, ErrInput)
	_, err = tables.Region(12)
	assert.ErrorIs(t, err, ErrInput)
	_, err = tables.Performance("HP-missing")
	assert.ErrorIs(t, err, ErrInput)
}

func TestLoadTablesDir(t *testing.T) {
	dir := t.TempDir()
	for name, f := range tableFiles(t) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), f.Data, 0o644))
	}
	tables, err := LoadTablesDir(dir)
	require.NoError(t, err)
	rec, err := tables.System(101)
	require.NoError(t, err)
	assert.Equal(t, KindRegularBoiler, rec.Kind)
}

func TestLoadTablesInvalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"unknown system kind", "systems.csv",
			"code,name,kind,winter_effy,summer_effy,responsiveness,has_ch_pump,has_flue_fan,has_warm_air_fan,has_oil_pump,summer_immersion,condensing,default_secondary_fraction\n" +
				"1,x,steam_engine,50,50,1,false,false,false,false,false,false,0.1\n"},
		{"boiler as water heater", "water_heaters.csv",
			"code,name,kind,effy,summer_immersion,is_electric\n905,x,regular_boiler,80,false,false\n"},
		{"control type", "controls.csv",
			"code,name,control_type,temp_adjustment,has_interlock,has_cylinderstat,separate_water_timer,delayed_start\n" +
				"2100,x,4,0,false,false,false,false\n"},
		{"incomplete region", "regions.csv", "region,month,t_ext,wind_speed\n0,1,4.3,5.1\n"},
		{"tariff off-peak gas", "tariffs.csv", "code,name,kind,on_peak_code,off_peak_code\n36,x,7-hour,32,1\n"},
		{"tariff kind", "tariffs.csv", "code,name,kind,on_peak_code,off_peak_code\n36,x,9-hour,32,31\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := tableFiles(t)
			files[tt.file] = &fstest.MapFile{Data: []byte(tt.data)}
			_, err := LoadTables(files)
			assert.ErrorIs(t, err, ErrInput)
		})
	}

	files := tableFiles(t)
	delete(files, "controls.csv")
	_, err := LoadTables(files)
	assert.Error(t, err)
}
