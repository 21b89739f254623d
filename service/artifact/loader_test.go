package artifact

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"grain-quality-service/logger"
	"grain-quality-service/service/preprocess"
	"grain-quality-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOptions() LoadOptions {
	return LoadOptions{
		ModelName:        testutil.ModelArtifactName,
		ProcessorName:    testutil.ProcessorArtifactName,
		FallbackFeatures: testutil.ExpectedFeatures(),
		Logger:           logger.New(io.Discard, "error"),
	}
}

func TestLoad_FromFiles(t *testing.T) {
	dir := testutil.WriteArtifacts(t)

	bundle, err := Load(context.Background(), NewFileSource(dir), defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, testutil.ExpectedFeatures(), bundle.ExpectedFeatures)
	assert.Equal(t, "voting", bundle.Model.Kind())
	assert.Equal(t, bundle.Model.FeatureNames(), bundle.Processor.OutputColumns())
	assert.Equal(t, "file://"+dir, bundle.Source)
}

func TestLoad_FromDatabase(t *testing.T) {
	testDB := testutil.NewTestDB()
	defer testDB.Close()

	factory := testutil.NewTestDataFactory(testDB.DB)
	factory.CreateModelArtifact(testutil.ProcessorArtifactName, testutil.ProcessorArtifact(), testutil.WithKind("processor"))
	factory.CreateModelArtifact(testutil.ModelArtifactName, testutil.ModelArtifact(), testutil.WithKind("model"))

	bundle, err := Load(context.Background(), NewDatabaseSource(testDB.DB), defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, testutil.ExpectedFeatures(), bundle.ExpectedFeatures)
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name      string
		processor []byte
		model     []byte
		errMsg    string
	}{
		{
			name:   "processor missing",
			model:  testutil.ModelArtifact(),
			errMsg: "处理器制品未找到",
		},
		{
			name:      "model missing",
			processor: testutil.ProcessorArtifact(),
			errMsg:    "模型制品未找到",
		},
		{
			name:      "corrupt processor",
			processor: []byte("{not json"),
			model:     testutil.ModelArtifact(),
			errMsg:    "加载处理器",
		},
		{
			name:      "corrupt model",
			processor: testutil.ProcessorArtifact(),
			model:     []byte(`{"type": "svm"}`),
			errMsg:    "加载模型",
		},
		{
			name:      "model inputs differ from processor outputs",
			processor: testutil.ProcessorArtifact(),
			model:     []byte(`{"type": "linear", "feature_names": ["Hardness"], "coef": [1], "intercept": 0}`),
			errMsg:    "不一致",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.processor != nil {
				require.NoError(t, os.WriteFile(filepath.Join(dir, testutil.ProcessorArtifactName), tt.processor, 0o600))
			}
			if tt.model != nil {
				require.NoError(t, os.WriteFile(filepath.Join(dir, testutil.ModelArtifactName), tt.model, 0o600))
			}

			bundle, err := Load(context.Background(), NewFileSource(dir), defaultOptions())
			require.Error(t, err)
			assert.Nil(t, bundle)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingArtifactIsNotFound(t *testing.T) {
	_, err := Load(context.Background(), NewFileSource(t.TempDir()), defaultOptions())
	assert.ErrorIs(t, err, ErrNotFound)
}

func newProcessor(t *testing.T, valid ...string) *preprocess.Processor {
	t.Helper()
	p, err := preprocess.NewProcessor(preprocess.ProcessorArtifact{
		ValidFeatures: valid,
		Imputer:       preprocess.ImputerArtifact{Statistics: make([]float64, len(valid))},
	})
	require.NoError(t, err)
	return p
}

func TestResolveExpectedFeatures(t *testing.T) {
	quiet := logger.New(io.Discard, "error")
	processor := newProcessor(t, "b", "a", preprocess.MeanFeatureColumn)

	t.Run("processor order wins and derived column dropped", func(t *testing.T) {
		got, err := ResolveExpectedFeatures(processor, nil, false, quiet)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, got)
	})

	t.Run("mismatch warns", func(t *testing.T) {
		var buf bytes.Buffer
		got, err := ResolveExpectedFeatures(processor, []string{"a", "b"}, false, logger.New(&buf, "warn"))
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, got)
		assert.Contains(t, buf.String(), "处理器特征与配置特征不一致")
	})

	t.Run("mismatch fails when strict", func(t *testing.T) {
		_, err := ResolveExpectedFeatures(processor, []string{"a", "b"}, true, quiet)
		assert.Error(t, err)
	})

	t.Run("fallback when processor only has derived column", func(t *testing.T) {
		derivedOnly := newProcessor(t, preprocess.MeanFeatureColumn)
		got, err := ResolveExpectedFeatures(derivedOnly, []string{"x"}, false, quiet)
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, got)

		_, err = ResolveExpectedFeatures(derivedOnly, nil, false, quiet)
		assert.Error(t, err)
	})
}
