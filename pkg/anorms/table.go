package anorms

import "github.com/Faultbox/aliasconv/pkg/math"

// table holds the 162 reference directions shared by MDL and MD2 vertex normals.
// It must be treated as read-only.
var table = [NumNormals]math.Vec3{
	{X: -0.525731, Y: 0.000000, Z: 0.850651},
	{X: -0.442863, Y: 0.238856, Z: 0.864188},
	{X: -0.295242, Y: 0.000000, Z: 0.955423},
	{X: -0.309017, Y: 0.500000, Z: 0.809017},
	{X: -0.162460, Y: 0.262866, Z: 0.951056},
	{X: 0.000000, Y: 0.000000, Z: 1.000000},
	{X: 0.000000, Y: 0.850651, Z: 0.525731},
	{X: -0.147621, Y: 0.716567, Z: 0.681718},
	{X: 0.147621, Y: 0.716567, Z: 0.681718},
	{X: 0.000000, Y: 0.525731, Z: 0.850651},
	{X: 0.309017, Y: 0.500000, Z: 0.809017},
	{X: 0.525731, Y: 0.000000, Z: 0.850651},
	{X: 0.295242, Y: 0.000000, Z: 0.955423},
	{X: 0.442863, Y: 0.238856, Z: 0.864188},
	{X: 0.162460, Y: 0.262866, Z: 0.951056},
	{X: -0.681718, Y: 0.147621, Z: 0.716567},
	{X: -0.809017, Y: 0.309017, Z: 0.500000},
	{X: -0.587785, Y: 0.425325, Z: 0.688191},
	{X: -0.850651, Y: 0.525731, Z: 0.000000},
	{X: -0.864188, Y: 0.442863, Z: 0.238856},
	{X: -0.716567, Y: 0.681718, Z: 0.147621},
	{X: -0.688191, Y: 0.587785, Z: 0.425325},
	{X: -0.500000, Y: 0.809017, Z: 0.309017},
	{X: -0.238856, Y: 0.864188, Z: 0.442863},
	{X: -0.425325, Y: 0.688191, Z: 0.587785},
	{X: -0.716567, Y: 0.681718, Z: -0.147621},
	{X: -0.500000, Y: 0.809017, Z: -0.309017},
	{X: -0.525731, Y: 0.850651, Z: 0.000000},
	{X: 0.000000, Y: 0.850651, Z: -0.525731},
	{X: -0.238856, Y: 0.864188, Z: -0.442863},
	{X: 0.000000, Y: 0.955423, Z: -0.295242},
	{X: -0.262866, Y: 0.951056, Z: -0.162460},
	{X: 0.000000, Y: 1.000000, Z: 0.000000},
	{X: 0.000000, Y: 0.955423, Z: 0.295242},
	{X: -0.262866, Y: 0.951056, Z: 0.162460},
	{X: 0.238856, Y: 0.864188, Z: 0.442863},
	{X: 0.262866, Y: 0.951056, Z: 0.162460},
	{X: 0.500000, Y: 0.809017, Z: 0.309017},
	{X: 0.238856, Y: 0.864188, Z: -0.442863},
	{X: 0.262866, Y: 0.951056, Z: -0.162460},
	{X: 0.500000, Y: 0.809017, Z: -0.309017},
	{X: 0.850651, Y: 0.525731, Z: 0.000000},
	{X: 0.716567, Y: 0.681718, Z: 0.147621},
	{X: 0.716567, Y: 0.681718, Z: -0.147621},
	{X: 0.525731, Y: 0.850651, Z: 0.000000},
	{X: 0.425325, Y: 0.688191, Z: 0.587785},
	{X: 0.864188, Y: 0.442863, Z: 0.238856},
	{X: 0.688191, Y: 0.587785, Z: 0.425325},
	{X: 0.809017, Y: 0.309017, Z: 0.500000},
	{X: 0.681718, Y: 0.147621, Z: 0.716567},
	{X: 0.587785, Y: 0.425325, Z: 0.688191},
	{X: 0.955423, Y: 0.295242, Z: 0.000000},
	{X: 1.000000, Y: 0.000000, Z: 0.000000},
	{X: 0.951056, Y: 0.162460, Z: 0.262866},
	{X: 0.850651, Y: -0.525731, Z: 0.000000},
	{X: 0.955423, Y: -0.295242, Z: 0.000000},
	{X: 0.864188, Y: -0.442863, Z: 0.238856},
	{X: 0.951056, Y: -0.162460, Z: 0.262866},
	{X: 0.809017, Y: -0.309017, Z: 0.500000},
	{X: 0.681718, Y: -0.147621, Z: 0.716567},
	{X: 0.850651, Y: 0.000000, Z: 0.525731},
	{X: 0.864188, Y: 0.442863, Z: -0.238856},
	{X: 0.809017, Y: 0.309017, Z: -0.500000},
	{X: 0.951056, Y: 0.162460, Z: -0.262866},
	{X: 0.525731, Y: 0.000000, Z: -0.850651},
	{X: 0.681718, Y: 0.147621, Z: -0.716567},
	{X: 0.681718, Y: -0.147621, Z: -0.716567},
	{X: 0.850651, Y: 0.000000, Z: -0.525731},
	{X: 0.809017, Y: -0.309017, Z: -0.500000},
	{X: 0.864188, Y: -0.442863, Z: -0.238856},
	{X: 0.951056, Y: -0.162460, Z: -0.262866},
	{X: 0.147621, Y: 0.716567, Z: -0.681718},
	{X: 0.309017, Y: 0.500000, Z: -0.809017},
	{X: 0.425325, Y: 0.688191, Z: -0.587785},
	{X: 0.442863, Y: 0.238856, Z: -0.864188},
	{X: 0.587785, Y: 0.425325, Z: -0.688191},
	{X: 0.688191, Y: 0.587785, Z: -0.425325},
	{X: -0.147621, Y: 0.716567, Z: -0.681718},
	{X: -0.309017, Y: 0.500000, Z: -0.809017},
	{X: 0.000000, Y: 0.525731, Z: -0.850651},
	{X: -0.525731, Y: 0.000000, Z: -0.850651},
	{X: -0.442863, Y: 0.238856, Z: -0.864188},
	{X: -0.295242, Y: 0.000000, Z: -0.955423},
	{X: -0.162460, Y: 0.262866, Z: -0.951056},
	{X: 0.000000, Y: 0.000000, Z: -1.000000},
	{X: 0.295242, Y: 0.000000, Z: -0.955423},
	{X: 0.162460, Y: 0.262866, Z: -0.951056},
	{X: -0.442863, Y: -0.238856, Z: -0.864188},
	{X: -0.309017, Y: -0.500000, Z: -0.809017},
	{X: -0.162460, Y: -0.262866, Z: -0.951056},
	{X: 0.000000, Y: -0.850651, Z: -0.525731},
	{X: -0.147621, Y: -0.716567, Z: -0.681718},
	{X: 0.147621, Y: -0.716567, Z: -0.681718},
	{X: 0.000000, Y: -0.525731, Z: -0.850651},
	{X: 0.309017, Y: -0.500000, Z: -0.809017},
	{X: 0.442863, Y: -0.238856, Z: -0.864188},
	{X: 0.162460, Y: -0.262866, Z: -0.951056},
	{X: 0.238856, Y: -0.864188, Z: -0.442863},
	{X: 0.500000, Y: -0.809017, Z: -0.309017},
	{X: 0.425325, Y: -0.688191, Z: -0.587785},
	{X: 0.716567, Y: -0.681718, Z: -0.147621},
	{X: 0.688191, Y: -0.587785, Z: -0.425325},
	{X: 0.587785, Y: -0.425325, Z: -0.688191},
	{X: 0.000000, Y: -0.955423, Z: -0.295242},
	{X: 0.000000, Y: -1.000000, Z: 0.000000},
	{X: 0.262866, Y: -0.951056, Z: -0.162460},
	{X: 0.000000, Y: -0.850651, Z: 0.525731},
	{X: 0.000000, Y: -0.955423, Z: 0.295242},
	{X: 0.238856, Y: -0.864188, Z: 0.442863},
	{X: 0.262866, Y: -0.951056, Z: 0.162460},
	{X: 0.500000, Y: -0.809017, Z: 0.309017},
	{X: 0.716567, Y: -0.681718, Z: 0.147621},
	{X: 0.525731, Y: -0.850651, Z: 0.000000},
	{X: -0.238856, Y: -0.864188, Z: -0.442863},
	{X: -0.500000, Y: -0.809017, Z: -0.309017},
	{X: -0.262866, Y: -0.951056, Z: -0.162460},
	{X: -0.850651, Y: -0.525731, Z: 0.000000},
	{X: -0.716567, Y: -0.681718, Z: -0.147621},
	{X: -0.716567, Y: -0.681718, Z: 0.147621},
	{X: -0.525731, Y: -0.850651, Z: 0.000000},
	{X: -0.500000, Y: -0.809017, Z: 0.309017},
	{X: -0.238856, Y: -0.864188, Z: 0.442863},
	{X: -0.262866, Y: -0.951056, Z: 0.162460},
	{X: -0.864188, Y: -0.442863, Z: 0.238856},
	{X: -0.809017, Y: -0.309017, Z: 0.500000},
	{X: -0.688191, Y: -0.587785, Z: 0.425325},
	{X: -0.681718, Y: -0.147621, Z: 0.716567},
	{X: -0.442863, Y: -0.238856, Z: 0.864188},
	{X: -0.587785, Y: -0.425325, Z: 0.688191},
	{X: -0.309017, Y: -0.500000, Z: 0.809017},
	{X: -0.147621, Y: -0.716567, Z: 0.681718},
	{X: -0.425325, Y: -0.688191, Z: 0.587785},
	{X: -0.162460, Y: -0.262866, Z: 0.951056},
	{X: 0.442863, Y: -0.238856, Z: 0.864188},
	{X: 0.162460, Y: -0.262866, Z: 0.951056},
	{X: 0.309017, Y: -0.500000, Z: 0.809017},
	{X: 0.147621, Y: -0.716567, Z: 0.681718},
	{X: 0.000000, Y: -0.525731, Z: 0.850651},
	{X: 0.425325, Y: -0.688191, Z: 0.587785},
	{X: 0.587785, Y: -0.425325, Z: 0.688191},
	{X: 0.688191, Y: -0.587785, Z: 0.425325},
	{X: -0.955423, Y: 0.295242, Z: 0.000000},
	{X: -0.951056, Y: 0.162460, Z: 0.262866},
	{X: -1.000000, Y: 0.000000, Z: 0.000000},
	{X: -0.850651, Y: 0.000000, Z: 0.525731},
	{X: -0.955423, Y: -0.295242, Z: 0.000000},
	{X: -0.951056, Y: -0.162460, Z: 0.262866},
	{X: -0.864188, Y: 0.442863, Z: -0.238856},
	{X: -0.951056, Y: 0.162460, Z: -0.262866},
	{X: -0.809017, Y: 0.309017, Z: -0.500000},
	{X: -0.864188, Y: -0.442863, Z: -0.238856},
	{X: -0.951056, Y: -0.162460, Z: -0.262866},
	{X: -0.809017, Y: -0.309017, Z: -0.500000},
	{X: -0.681718, Y: 0.147621, Z: -0.716567},
	{X: -0.681718, Y: -0.147621, Z: -0.716567},
	{X: -0.850651, Y: 0.000000, Z: -0.525731},
	{X: -0.688191, Y: 0.587785, Z: -0.425325},
	{X: -0.587785, Y: 0.425325, Z: -0.688191},
	{X: -0.425325, Y: 0.688191, Z: -0.587785},
	{X: -0.425325, Y: -0.688191, Z: -0.587785},
	{X: -0.587785, Y: -0.425325, Z: -0.688191},
	{X: -0.688191, Y: -0.587785, Z: -0.425325},
}
