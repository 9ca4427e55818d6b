package config

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔（本系统固定为1秒步进）
}

// Signal 信控参数配置
// 功能：定义混合控制器与引擎过渡期共用的信控参数
// 说明：MinGreen必须小于MaxGreen；Yellow+AllRed构成引擎切相时的过渡锁定时长
type Signal struct {
	MinGreen int32 `yaml:"min_green,omitempty"` // 最小绿灯时间（秒）
	MaxGreen int32 `yaml:"max_green,omitempty"` // 最大绿灯时间（秒）
	Gap      int32 `yaml:"gap,omitempty"`       // 绿灯延长的到达间隔窗口（秒）
	MaxWait  int32 `yaml:"max_wait,omitempty"`  // 公平性强制切换的拥堵时长阈值（秒）
	Yellow   int32 `yaml:"yellow,omitempty"`    // 黄灯时间（秒）
	AllRed   int32 `yaml:"all_red,omitempty"`   // 全红时间（秒）
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
type Control struct {
	Step       ControlStep `yaml:"step"`
	Mode       string      `yaml:"mode,omitempty"`        // 运行模式：episode（逐秒仿真）| plan（离线配时）
	Engine     string      `yaml:"engine,omitempty"`      // 引擎实现：flow（需求驱动）| mix（车型感知）
	Demand     string      `yaml:"demand,omitempty"`      // 需求档位：Off-peak | Typical | Rush
	Seed       uint64      `yaml:"seed,omitempty"`        // 随机数种子
	Signal     Signal      `yaml:"signal,omitempty"`      // 信控参数
	FixedGreen int32       `yaml:"fixed_green,omitempty"` // 基线定周期控制器的绿灯时长（0表示不切相）
}

// Plan 离线配时规划配置
// 功能：定义周期长度与绿信比分配的边界参数
type Plan struct {
	CycleLength    float64 `yaml:"cycle_length,omitempty"`   // 周期长度（秒）
	MinGreen       float64 `yaml:"min_green,omitempty"`      // 单相位最小绿灯（秒）
	MaxGreen       float64 `yaml:"max_green,omitempty"`      // 单相位最大绿灯（秒）
	BaselineGreen  float64 `yaml:"baseline_green,omitempty"` // 无需求时的基线绿灯（秒）
	Responsiveness float64 `yaml:"responsiveness,omitempty"` // 向重需求侧倾斜的强度（0..1）
}

// Scenario 场景数据来源配置
// 功能：定义合成/回放需求数据的场景选择与录制数据来源
// 说明：录制数据优先从DataDir下的文件读取，文件缺失且配置了URI时从MongoDB读取
type Scenario struct {
	Name    string `yaml:"name,omitempty"`     // 场景预设名
	Cycles  int32  `yaml:"cycles,omitempty"`   // 合成数据的周期数
	Replay  bool   `yaml:"replay,omitempty"`   // true时回放录制数据而非合成
	DataDir string `yaml:"data_dir,omitempty"` // 录制CSV所在目录
	URI     string `yaml:"uri,omitempty"`      // MongoDB连接字符串（可选数据源）
	DB      string `yaml:"db,omitempty"`       // 数据库名
	Col     string `yaml:"col,omitempty"`      // 集合名
}

// Output 输出配置
type Output struct {
	File string `yaml:"file,omitempty"` // 配时方案输出CSV路径，为空则只写日志
}

// Config YAML配置文件的根结构
type Config struct {
	Control  Control  `yaml:"control"`            // 模拟过程控制
	Plan     Plan     `yaml:"plan,omitempty"`     // 离线配时
	Scenario Scenario `yaml:"scenario,omitempty"` // 场景数据来源
	Output   Output   `yaml:"output,omitempty"`   // 输出
}
