// Package lexical 单调计数器，用来替代 ULID/SLID 的随机部分，使同一生成器产生的 ID 严格递增。
//
// 计数器种类：
//   - runtime    80 bit，每次进程启动从 0 开始
//   - local      80 bit，启动时从持久化的值之后继续，Registry.Close 时写回最后一个值
//   - env        8 bit 环境 ID + 72 bit 自由计数
//   - thread-env 与 env 相同，但按调用方给出的身份（goroutine、worker 名等）分别分配
//   - short-env  4 bit 环境 ID + 4 bit 自由计数
//   - slid       8 bit 环境 ID + 8 bit 自由计数，用于 SLID
//
// 环境 ID 放在低位：value = (free << envBits) | env。
// 环境 ID 在排他锁内从 counterstore 分配，每个进程（或身份）只分配一次，之后的生成不再加锁。
// 计数到最大值后回到 0，这是约定行为而不是错误。
package lexical
