// Package xconf 加载 xcas 的运行配置，基于 koanf 实现。
//
// 配置分为两部分：
//   - eviction：淘汰上限，直接映射为 xevict.Config
//   - snapshot：快照落盘路径、编码、定时保存的 cron 表达式以及 Redis key
//
// 未出现在配置文件中的字段保留 Defaults 中的默认值。
// 加载完成后统一校验，淘汰配置的错误直接透传 xevict 的哨兵错误。
//
// # 支持的格式
//
//   - YAML（推荐）：.yaml, .yml
//   - JSON：.json
//
// # 配置监视
//
// Watch 基于 fsnotify 监视配置文件所在目录（兼容 vim/emacs 的原子写入），
// 内置防抖。每次变更重新执行 Load，并把结果交给回调：
//
//	w, err := xconf.Watch(path, func(s xconf.Settings, err error) {
//	    if err != nil {
//	        return
//	    }
//	    _ = m.SetConfig(ctx, s.Eviction)
//	})
//
// Stop 返回后不再有回调执行。回调在监视 goroutine 中同步执行，不得在回调中调用 Stop。
package xconf
