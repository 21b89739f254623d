/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference DESIGN.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify
 * @refs service/models, testutil/testdata
 */

package testutil

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"grain-quality-service/service/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 制品名称，与默认配置一致
const (
	ProcessorArtifactName = "data_processor.json"
	ModelArtifactName     = "ensemble_model.json"
)

//go:embed testdata/*.json
var testdata embed.FS

// ProcessorArtifact 测试用处理器制品
func ProcessorArtifact() []byte {
	return mustRead(ProcessorArtifactName)
}

// ModelArtifact 测试用模型制品
func ModelArtifact() []byte {
	return mustRead(ModelArtifactName)
}

// GoldenCase 冻结制品下的回归样例
type GoldenCase struct {
	Features   map[string]float64 `json:"features"`
	Raw        float64            `json:"raw"`
	Prediction float64            `json:"prediction"`
}

// GoldenCases 读取回归样例
func GoldenCases() []GoldenCase {
	var golden struct {
		Cases []GoldenCase `json:"cases"`
	}
	if err := json.Unmarshal(mustRead("golden_predictions.json"), &golden); err != nil {
		panic(fmt.Sprintf("failed to parse golden predictions: %v", err))
	}
	return golden.Cases
}

// ExpectedFeatures 测试制品对应的期望特征
func ExpectedFeatures() []string {
	return []string{"Gluten_content", "Protein_content", "Hardness"}
}

// WriteArtifacts 将测试制品写入临时目录并返回目录路径
func WriteArtifacts(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProcessorArtifactName), ProcessorArtifact())
	writeFile(t, filepath.Join(dir, ModelArtifactName), ModelArtifact())
	return dir
}

func writeFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustRead(name string) []byte {
	data, err := testdata.ReadFile("testdata/" + name)
	if err != nil {
		panic(fmt.Sprintf("failed to read testdata %s: %v", name, err))
	}
	return data
}

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// :memory: 数据库按连接隔离，只保留一个连接
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.ModelArtifact{}); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	tdb.DB.Exec("DELETE FROM model_artifacts")
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// ModelArtifactOption 制品选项函数类型
type ModelArtifactOption func(*models.ModelArtifact)

// WithVersion 设置制品版本
func WithVersion(version int) ModelArtifactOption {
	return func(a *models.ModelArtifact) {
		a.Version = version
	}
}

// WithKind 设置制品类型
func WithKind(kind string) ModelArtifactOption {
	return func(a *models.ModelArtifact) {
		a.Kind = kind
	}
}

// CreateModelArtifact 创建测试制品
func (f *TestDataFactory) CreateModelArtifact(name string, payload []byte, opts ...ModelArtifactOption) *models.ModelArtifact {
	artifact := &models.ModelArtifact{
		Name:        name,
		Version:     1,
		Payload:     string(payload),
		Description: "测试制品",
		CreatedBy:   "test",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	// 应用选项
	for _, opt := range opts {
		opt(artifact)
	}

	if err := f.DB.Create(artifact).Error; err != nil {
		panic(fmt.Sprintf("failed to create test model artifact: %v", err))
	}

	return artifact
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
