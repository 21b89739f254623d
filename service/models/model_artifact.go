/*
 * @module service/models/model_artifact
 * @description 模型制品存储模型，数据库制品来源按名称读取最新版本
 * @architecture 数据模型层
 * @documentReference DESIGN.md
 * @stateFlow 离线导出制品 -> 写入数据库 -> 服务启动时读取一次
 * @rules 同名制品按版本号递增，启动时读取版本号最大的一条
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/artifact/source.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModelArtifact 模型制品
type ModelArtifact struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_artifact_name_version" json:"name"`
	Version     int       `gorm:"not null;default:1;uniqueIndex:idx_artifact_name_version" json:"version"`
	Kind        string    `gorm:"type:varchar(50);not null;default:''" json:"kind"` // processor, model
	Payload     string    `gorm:"type:text;not null" json:"payload"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedBy   string    `gorm:"type:varchar(100);not null;default:'system'" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (ModelArtifact) TableName() string {
	return "model_artifacts"
}

// BeforeCreate GORM钩子，创建前生成UUID
func (a *ModelArtifact) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedBy == "" {
		a.CreatedBy = "system"
	}
	return nil
}
