package refuges

// corrections - координаты точек, которые в refuges.info неверны.
// Координаты используются для сопоставления хижин, поэтому исправляются здесь.
var corrections = map[int][2]float64{
	2414: {46.52605, 8.17309},     // Oberaarjochhuette
	2980: {46.38300, 7.46782},     // Wildstrubelhuette
	3418: {46.48304, 7.12020},     // La Cabane des Choucas
	403:  {46.30683, 6.74356},     // Refuge d'Ubine
	3605: {46.47469, 6.91070},     // le-Grillet
	419:  {46.33056, 6.76587},     // Refuge de Bise
	2265: {45.98630, 7.63479},     // Lonza biwak
	5170: {46.2174989, 8.4489458}, // Bivacco Campolatte
	2336: {45.93388, 7.70813},     // Rifugio Testa Grigia
	2463: {46.15540, 7.27787},     // Cabane de Balavaux
	239:  {45.89486, 6.98097},     // Refuge de Leschaux
	2382: {46.13942, 7.98927},     // Hohsaashütte
	2464: {46.07422, 7.86581},     // Mischabeljoch biwak
	3638: {46.05932, 7.06211},     // Cabane de Bovinette
	2890: {46.02005, 7.01120},     // Refuge des Petoudes
	2473: {46.14465, 6.97053},     // Refuge-auberge de Salanfe
}
