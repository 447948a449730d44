package value

import "iter"

// Sequence 从某个值出发逐个加一（或减一）的可重复迭代
type Sequence struct {
	origin  Value
	count   uint64
	bounded bool
}

// Sequence 无限序列，调用方负责在合适的时候停止迭代
// 到达位宽边界时迭代自然结束
func (v Value) Sequence() *Sequence {
	return &Sequence{origin: v}
}

// SequenceN 最多 n 个元素的序列
func (v Value) SequenceN(n uint64) *Sequence {
	return &Sequence{origin: v, count: n, bounded: true}
}

// Forward 依次产生 origin+1, origin+2, ...
// 每次调用都从头开始
func (s *Sequence) Forward() iter.Seq[Value] {
	return s.walk(1)
}

// Backward 依次产生 origin-1, origin-2, ...
func (s *Sequence) Backward() iter.Seq[Value] {
	return s.walk(-1)
}

func (s *Sequence) walk(step int64) iter.Seq[Value] {
	return func(yield func(Value) bool) {
		cur := s.origin
		for i := uint64(0); !s.bounded || i < s.count; i++ {
			next, err := cur.Add(step)
			if err != nil {
				return
			}
			if !yield(next) {
				return
			}
			cur = next
		}
	}
}
