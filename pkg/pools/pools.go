// Package pools provides object pooling for the hot loops of classification.
//
//   - IDPool: size-class pooling for entity.ID slices (rule scratch lists)
//   - SetPool: pooling for entity.Set values (reduction candidate sets)
//   - BytePool: size-class pooling for byte slices
//   - KeyBuilder: pooled construction of binary descriptor keys
package pools
