// Package xlru 提供无容量上限的 LRU 顺序存储。
//
// xlru 基于 github.com/hashicorp/golang-lru/v2/simplelru 封装，只负责维护
// 键的访问顺序，不做任何容量淘汰。容量、字节数、年龄等淘汰策略由上层
// （如 xevict）决定，并在上层锁内显式弹出条目。
//
// # 核心特性
//
//   - 泛型支持：任意 comparable 的键类型和任意值类型
//   - O(1) 读写：Get/Put/Pop/Oldest/PopOldest 均为常数时间
//   - 顺序遍历：Range 按从新到旧的顺序访问全部条目，Newest 取最新的若干个值
//   - 无静默丢弃：底层容量设为 math.MaxInt，条目只会被显式移除
//
// # 并发模型
//
// Ordered 不是并发安全的。调用方必须用自己的互斥锁保护所有方法调用，
// 这样才能让"弹出条目"与"释放条目资源"处于同一个临界区内。
//
// # 设计决策
//
// 不使用 simplelru 的 onEvict 回调：容量不可达，回调永远不会触发；
// 上层需要区分淘汰、替换、删除三种离开原因，回调无法表达。
package xlru
