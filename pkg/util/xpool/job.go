package xpool

// Job 是提交到 pool 的任务：无参数、无返回值，恰好执行一次。
//
// 任务通过闭包携带自身状态，所有权随 Submit 转给 pool，
// 出队后归执行它的 worker 独占。
type Job func()
