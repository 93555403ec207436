package utils

import (
	"fmt"
	"time"

	sf "github.com/bwmarrin/snowflake"
)

// SnowflakeNode 封装雪花算法节点
type SnowflakeNode struct {
	node *sf.Node
}

// NewSnowflakeNode 创建雪花算法节点
// startTime: 起始时间，格式："2006-01-02"
// machineID: 机器ID (0-1023)
func NewSnowflakeNode(startTime string, machineID int64) (*SnowflakeNode, error) {
	st, err := time.Parse("2006-01-02", startTime)
	if err != nil {
		return nil, fmt.Errorf("解析起始时间失败: %w", err)
	}
	sf.Epoch = st.UnixNano() / 1000000

	node, err := sf.NewNode(machineID)
	if err != nil {
		return nil, fmt.Errorf("创建雪花节点失败: %w", err)
	}
	return &SnowflakeNode{node: node}, nil
}

// GenerateID 生成唯一ID
func (s *SnowflakeNode) GenerateID() string {
	return s.node.Generate().String()
}
