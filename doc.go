// Package fedot is an automated machine-learning core built around composable
// model pipelines.
//
// A pipeline is a directed acyclic graph of operation nodes (transformers and
// models) rooted at a single output node. The core provides:
//
//   - core/data: the typed data container, task descriptors and the
//     task-aware train/test splitter
//   - core/operation: the fit/predict capability contract and the operation
//     registry
//   - core/pipeline: the pipeline graph with topological fit/predict,
//     per-node fitted-state caching and structural mutation
//   - metrics: quality metrics and the task-to-metric resolver
//   - sensitivity: node sensitivity analysis and the iterative
//     Multi-Times-Analyze deletion search that shrinks pipelines based on
//     measured quality degradation
//
// Concrete operations (scaling, linear and logistic regression, recurrent
// forecasters) live under operations/ and register themselves with the
// operation registry on import.
package fedot
