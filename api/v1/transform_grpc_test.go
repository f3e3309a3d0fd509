package basisv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceDesc_NoProtoMetadata(t *testing.T) {
	assert.Nil(t, TransformService_ServiceDesc.Metadata)
	assert.Equal(t, "basis.v1.TransformService", TransformService_ServiceDesc.ServiceName)
	assert.Len(t, TransformService_ServiceDesc.Methods, 1)
	assert.Equal(t, "Transform", TransformService_ServiceDesc.Methods[0].MethodName)
}
