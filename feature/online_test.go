package feature

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/levelkit/core"
	"github.com/rushteam/levelkit/feast"
)

// fakeClient 是测试用的 Feast 客户端，按请求顺序回放预设的特征向量。
type fakeClient struct {
	lastReq *feast.GetOnlineFeaturesRequest
	vectors []feast.FeatureVector
}

func (c *fakeClient) GetOnlineFeatures(ctx context.Context, req *feast.GetOnlineFeaturesRequest) (*feast.GetOnlineFeaturesResponse, error) {
	c.lastReq = req
	return &feast.GetOnlineFeaturesResponse{FeatureVectors: c.vectors}, nil
}

func (c *fakeClient) Close() error { return nil }

func TestLoadWide(t *testing.T) {
	client := &fakeClient{
		vectors: []feast.FeatureVector{
			{Values: map[string]interface{}{
				"drug_levels:insulin": 15.0,
				"drug_levels:aspirin": 81.0,
			}},
			{Values: map[string]interface{}{
				"drug_levels:insulin": 5.0,
				// aspirin absent online
			}},
		},
	}
	loader := &OnlineLevelLoader{Client: client, FeatureView: "drug_levels", MissingFill: 0.0}

	got, err := loader.LoadWide(context.Background(), []string{"a", "b"}, "patient_id", []string{"insulin", "aspirin"})
	if err != nil {
		t.Fatalf("LoadWide() error = %v", err)
	}

	wantRefs := []string{"drug_levels:insulin", "drug_levels:aspirin"}
	if !reflect.DeepEqual(client.lastReq.Features, wantRefs) {
		t.Errorf("request features = %v, want %v", client.lastReq.Features, wantRefs)
	}
	if !reflect.DeepEqual(got.Columns(), []string{"patient_id", "insulin", "aspirin"}) {
		t.Errorf("columns = %v", got.Columns())
	}
	want := []core.Row{
		{"patient_id": "a", "insulin": 15.0, "aspirin": 81.0},
		{"patient_id": "b", "insulin": 5.0, "aspirin": 0.0},
	}
	if !reflect.DeepEqual(got.Rows(), want) {
		t.Errorf("rows = %v, want %v", got.Rows(), want)
	}
}

func TestLoadWideEmptyInputs(t *testing.T) {
	loader := &OnlineLevelLoader{Client: &fakeClient{}, FeatureView: "drug_levels"}

	got, err := loader.LoadWide(context.Background(), nil, "patient_id", []string{"insulin"})
	if err != nil {
		t.Fatalf("LoadWide() error = %v", err)
	}
	if got.NumRows() != 0 || !got.HasColumn("insulin") {
		t.Errorf("empty ids: frame = %v / %v", got.Columns(), got.Rows())
	}

	if _, err := (&OnlineLevelLoader{}).LoadWide(context.Background(), []string{"a"}, "id", []string{"x"}); err == nil {
		t.Error("expected error for nil client")
	}
}

func TestLoadWideFromRegistry(t *testing.T) {
	client := &fakeClient{
		vectors: []feast.FeatureVector{
			{Values: map[string]interface{}{"drug_levels:insulin": 1.0}},
		},
	}
	loader := &OnlineLevelLoader{Client: client, FeatureView: "drug_levels", MissingFill: 0.0}
	reg := core.LevelRegistry{"drug_levels": {"insulin"}}

	got, err := loader.LoadWideFromRegistry(context.Background(), []string{"a"}, "patient_id", "drug", reg)
	if err != nil {
		t.Fatalf("LoadWideFromRegistry() error = %v", err)
	}
	if got.Row(0)["insulin"] != 1.0 {
		t.Errorf("row = %v", got.Row(0))
	}

	_, err = loader.LoadWideFromRegistry(context.Background(), []string{"a"}, "patient_id", "clinic", reg)
	if !core.IsMissingLevelSetKey(err) {
		t.Errorf("missing key error = %v", err)
	}
}
