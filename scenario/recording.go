package scenario

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoTimeout 单次MongoDB读取的超时时间
const mongoTimeout = 30 * time.Second

// recordRow 录制数据在MongoDB中的存储结构
type recordRow struct {
	Scenario string  `bson:"scenario"` // 场景预设名
	Cycle    int32   `bson:"cycle"`
	Approach string  `bson:"approach"`
	Vehicles float64 `bson:"vehicles"`
	Queue    float64 `bson:"queue"`
}

// LoadRecordedCounts 加载场景的录制需求数据
// 功能：回放真实逐周期计数，输出形状与合成数据一致
// 参数：name-场景预设名
// 返回：需求数据行；未知场景返回ErrUnknownScenario，无可用录制返回ErrNoRecording
// 算法说明：
// 1. 场景未配置录制文件名：直接报ErrNoRecording
// 2. 文件来源优先：DataDir下存在录制CSV则读文件
// 3. 文件缺失且配置了MongoDB：按场景名过滤读取集合
// 4. 两个来源都不可用：报ErrNoRecording并附缺失路径
func (r *Registry) LoadRecordedCounts(name string) ([]entity.DemandRow, error) {
	p, ok := r.presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	if p.Recording == "" {
		return nil, fmt.Errorf("%w: %q has no recording configured", ErrNoRecording, name)
	}
	path := filepath.Join(r.cfg.DataDir, p.Recording)
	if _, err := os.Stat(path); err == nil {
		return loadCSV(path)
	}
	if r.cfg.URI != "" {
		return r.loadMongo(name)
	}
	return nil, fmt.Errorf("%w: %q (recording file %s missing)", ErrNoRecording, name, path)
}

// loadCSV 从CSV文件加载录制数据
// 说明：列布局固定为cycle,approach,vehicles,queue，首行为表头
func loadCSV(path string) ([]entity.DemandRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: open recording %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("scenario: read recording %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("scenario: recording %s is empty", path)
	}

	rows := make([]entity.DemandRow, 0, len(records)-1)
	for i, rec := range records[1:] { // 跳过表头
		if len(rec) < 4 {
			return nil, fmt.Errorf("scenario: recording %s line %d: expect 4 columns, got %d", path, i+2, len(rec))
		}
		cycle, err := strconv.ParseInt(rec[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("scenario: recording %s line %d: bad cycle %q", path, i+2, rec[0])
		}
		approach, err := parseApproach(rec[1])
		if err != nil {
			return nil, fmt.Errorf("scenario: recording %s line %d: %w", path, i+2, err)
		}
		vehicles, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("scenario: recording %s line %d: bad vehicles %q", path, i+2, rec[2])
		}
		queue, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("scenario: recording %s line %d: bad queue %q", path, i+2, rec[3])
		}
		rows = append(rows, entity.DemandRow{
			Cycle:    int32(cycle),
			Approach: approach,
			Vehicles: vehicles,
			Queue:    queue,
		})
	}
	log.Infof("loaded %d recorded rows from %s", len(rows), path)
	return rows, nil
}

// loadMongo 从MongoDB集合加载录制数据
// 说明：来源布局沿用文件来源的行结构，按scenario字段过滤
func (r *Registry) loadMongo(name string) ([]entity.DemandRow, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(r.cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("scenario: connect mongodb: %w", err)
	}
	defer client.Disconnect(context.Background())

	cursor, err := client.Database(r.cfg.DB).Collection(r.cfg.Col).
		Find(ctx, bson.M{"scenario": name}, options.Find().SetSort(bson.M{"cycle": 1}))
	if err != nil {
		return nil, fmt.Errorf("scenario: query recording for %q: %w", name, err)
	}
	var records []recordRow
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("scenario: decode recording for %q: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %q (no rows in %s.%s)", ErrNoRecording, name, r.cfg.DB, r.cfg.Col)
	}

	rows := make([]entity.DemandRow, 0, len(records))
	for _, rec := range records {
		approach, err := parseApproach(rec.Approach)
		if err != nil {
			return nil, fmt.Errorf("scenario: recording for %q: %w", name, err)
		}
		rows = append(rows, entity.DemandRow{
			Cycle:    rec.Cycle,
			Approach: approach,
			Vehicles: rec.Vehicles,
			Queue:    rec.Queue,
		})
	}
	log.Infof("loaded %d recorded rows for %q from %s.%s", len(rows), name, r.cfg.DB, r.cfg.Col)
	return rows, nil
}

// parseApproach 校验并转换进口道名
// 说明：录制数据属于外部输入，未知进口道按数据错误返回而非panic
func parseApproach(s string) (entity.Approach, error) {
	for _, a := range entity.Approaches {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown approach %q", s)
}
