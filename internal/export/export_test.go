package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dmarins/stripcut/internal/model"
)

func sampleSolution() model.Solution {
	shelf := model.Item{ID: "shelf", Label: "Shelf", Width: 600, Height: 300, Demand: 4}
	side := model.Item{ID: "side", Label: "Side Panel", Width: 800, Height: 400, Demand: 2}

	return model.Solution{
		PlateWidth:  2440,
		PlateHeight: 1220,
		Plates: []model.Plate{
			{Strips: []model.Strip{
				{Y: 0, Height: 400, Placements: []model.Placement{
					{Item: side, Quantity: 2, X: 0},
				}},
				{Y: 400, Height: 300, Placements: []model.Placement{
					{Item: shelf, Quantity: 4, X: 0},
				}},
			}},
		},
		Utilization: 0.5,
	}
}

func assertFileWritten(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPDF_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	require.NoError(t, PDF(path, sampleSolution()))
	assertFileWritten(t, path)
}

func TestPDF_RejectsEmptySolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	err := PDF(path, model.Solution{PlateWidth: 2440, PlateHeight: 1220})
	assert.Error(t, err)
}

func TestDXF_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.dxf")
	require.NoError(t, DXF(path, sampleSolution()))
	assertFileWritten(t, path)
}

func TestXLSX_WritesReadableWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	require.NoError(t, XLSX(path, sampleSolution()))
	assertFileWritten(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Cut List")
	assert.Contains(t, sheets, "Summary")

	rows, err := f.GetRows("Cut List")
	require.NoError(t, err)
	// header plus one row per run
	require.Len(t, rows, 3)
	assert.Equal(t, "Plate", rows[0][0])
	assert.Equal(t, "Side Panel", rows[1][2])
	assert.Equal(t, "Shelf", rows[2][2])
}

func TestLabels_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	require.NoError(t, Labels(path, sampleSolution()))
	assertFileWritten(t, path)
}

func TestLabels_RejectsEmptySolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	err := Labels(path, model.Solution{PlateWidth: 2440, PlateHeight: 1220})
	assert.Error(t, err)
}

func TestCollectLabelInfos_OnePerRun(t *testing.T) {
	infos := CollectLabelInfos(sampleSolution())
	require.Len(t, infos, 2)

	assert.Equal(t, "Side Panel", infos[0].ItemLabel)
	assert.Equal(t, 2, infos[0].Quantity)
	assert.Equal(t, 1, infos[0].PlateIndex)
	assert.Equal(t, 0.0, infos[0].Y)

	assert.Equal(t, "Shelf", infos[1].ItemLabel)
	assert.Equal(t, 4, infos[1].Quantity)
	assert.Equal(t, 400.0, infos[1].Y)
}

func TestAssignColors_StableAcrossItems(t *testing.T) {
	sol := sampleSolution()
	colors := assignColors(sol)

	require.Len(t, colors, 2)
	assert.Contains(t, colors, "shelf")
	assert.Contains(t, colors, "side")
	assert.NotEqual(t, colors["shelf"], colors["side"])
}
