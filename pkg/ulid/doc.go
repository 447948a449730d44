// Package ulid 实现 ULID 和 SLID 两种可按字典序排序的标识符
//
// ULID 共 128 bit：48 bit 毫秒时间戳 + 80 bit 随机部分，文本为 26 个 Crockford base32 字符
// （时间戳 10 个 + 随机部分 16 个，两段各自按 nopad 方式编码）。
//
// SLID 共 64 bit：48 bit 毫秒时间戳 + 16 bit 随机部分，文本为 10 个 base32 字符
// 加 4 个大写十六进制字符。
//
// 两种标识符的排序等价于拼接后整数的排序：时间戳优先，随机部分决定同一毫秒内的先后。
// 随机部分既可以来自随机字节，也可以来自 lexical 包中的单调计数器：
//
//	id, err := ulid.New(entropy.SystemClock, entropy.Default())
//	id, err := ulid.NewLexical(entropy.SystemClock, registry.Runtime())
//
// 注意时间戳段按 nopad 左对齐编码，文本形式与 ULID 规范中的右对齐形式不同；
// 需要规范形式时使用 CanonicalString。
package ulid
