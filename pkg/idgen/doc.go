// Package idgen 提供 ULID / SLID 生成器
//
// Generator 组合了时钟、随机源和计数器注册表，生成的 ID 具有以下特性：
//   - 128 bit ULID：48 bit 毫秒时间戳 + 80 bit 随机部分，26 个 Crockford base32 字符
//   - 64 bit SLID：48 bit 毫秒时间戳 + 16 bit 随机部分，14 个字符
//   - 文本按字典序排序即按时间排序
//   - lexical 模式下随机部分来自计数器，同一生成器产生的 ID 严格递增
//
// 带前缀的 ID 格式：{prefix}-{ULID}，例如 req-01J9Z3XW1B7QK6R2M8T4V5N0PH
//
// 使用方式：
//
// 方式一：使用包级别的便捷函数（使用默认生成器）
//
//	id, err := idgen.ULID()
//	reqID, err := idgen.GenerateID("req")
//
// 方式二：使用默认生成器
//
//	gen := idgen.DefaultGenerator()
//	id, err := gen.Lexical(ctx, lexical.KindRuntime)
//
// 方式三：创建自定义生成器，计数器持久化到目录
//
//	store := counterstore.NewFileStore("/var/lib/lexid", 5*time.Second)
//	gen := idgen.New(idgen.WithStore(store), idgen.WithSystemCheck())
//	defer gen.Close(ctx)
//	id, err := gen.Lexical(ctx, lexical.KindEnv)
package idgen
