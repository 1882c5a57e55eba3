package aisx

import (
	"github.com/itsatony/go-aisx/internal"
	"go.uber.org/zap"
)

// reject reports a pending value that failed. The render continues; the
// failing value renders as "".
func (r *renderPass) reject(node internal.NodeID, msg string, cause error) {
	path := r.path(node)
	tree := r.tree.Dump()
	err := NewPromiseRejectionError(msg, path, tree, cause)

	r.engine.logger.Warn(LogMsgPromiseRejected,
		zap.String(LogFieldErrorType, ErrorTypePromiseRejection),
		zap.String(LogFieldNode, path),
		zap.String(LogFieldRenderTree, tree),
		zap.NamedError(LogFieldCause, cause),
	)
	r.engine.metrics.incRejection()
	r.engine.runHook(r.ctx, HookPromiseRejected, NewHookData(r.mode, r.root).
		WithNode(path).
		WithError(err).
		WithRenderTree(tree))
}

// warn reports a recovered failure that rendered as "".
func (r *renderPass) warn(node internal.NodeID, err error) {
	r.engine.logger.Warn(LogMsgRenderWarning,
		zap.String(LogFieldErrorType, ErrorTypeAisx),
		zap.String(LogFieldNode, r.path(node)),
		zap.Error(err),
	)
}
