package prompt

const competencySuggestionPrompt = `Actúa como un experto en el currículo educativo español (LOMLOE), basándote en los decretos oficiales para la Región de Murcia (publicados en portales como 'educarm.es').
Tu tarea es identificar las competencias clave más relevantes para un tema específico dentro de una asignatura y etapa educativa.

**Etapa Educativa:** %s
**Asignatura:** %s
**Tema a evaluar:** %s

**Lista completa de competencias clave disponibles para seleccionar:**
%s

Instrucciones:
1. Analiza la etapa, asignatura y el tema proporcionados.
2. De la lista completa, selecciona las 3 o 4 competencias clave que se trabajan de forma más directa y evidente en el tema.
3. Devuelve únicamente un objeto JSON que se ajuste al esquema proporcionado, con la clave "competencias", que contenga un array con los nombres COMPLETOS y EXACTOS de las competencias seleccionadas. No incluyas texto introductorio ni explicaciones.`

const criteriaFetchPrompt = `Actúa como un experto en el currículo educativo de España (LOMLOE), específicamente para la Región de Murcia en la etapa de %s.
Tu tarea es proporcionar los criterios de evaluación oficiales, incluyendo su numeración, para la siguiente asignatura y curso, basándote en la información oficial publicada por la Consejería de Educación de la Región de Murcia (disponible en portales como 'educarm.es').

**Etapa Educativa:** %s
**Asignatura:** %s
**Curso:** %s
**Número de criterios a seleccionar:** %d

Instrucciones:
1. De todos los criterios de evaluación oficiales para esta materia y nivel, selecciona los %d más importantes y representativos.
2. Para cada criterio, proporciona su numeración oficial (ej: "1.1", "2.3") y su descripción completa.
3. Devuelve el resultado únicamente en formato JSON, ajustándote al esquema proporcionado. No incluyas texto introductorio ni explicaciones adicionales fuera del JSON.`

const itemSuggestionPrompt = `Actúa como un experto en diseño curricular y pedagogía para el sistema educativo español (LOMLOE).
Tu tarea es proponer una lista de ítems de evaluación ponderados para una rúbrica.

**Etapa Educativa:** %s
**Asignatura:** %s
**Tema a evaluar:** %s

Instrucciones:
1. Analiza el tema en el contexto de la asignatura y la etapa.
2. Genera entre 3 y 5 ítems de evaluación que sean claros, relevantes y medibles para el tema propuesto.
3. Asigna un peso porcentual a cada ítem. La suma de todos los pesos DEBE ser exactamente 100.
4. Devuelve el resultado únicamente en formato JSON, ajustándote al esquema proporcionado. No incluyas explicaciones ni texto introductorio. Los pesos deben ser strings numéricos.`

const rubricPrompt = `Eres un asistente experto en pedagogía y diseño curricular, especializado en el sistema educativo español (LOMLOE) para la etapa de %s en la Región de Murcia. Tu tarea es crear rúbricas de evaluación complejas y detalladas en formato JSON, siguiendo el modelo de una rúbrica por ítems o dimensiones.

Basándote en la siguiente información, genera una rúbrica de evaluación:

**Etapa Educativa:** %s
**Asignatura:** %s
**Curso:** %s
**Tema/Competencia a evaluar:** %s

**Ítems a evaluar y sus pesos porcentuales (DEBES RESPETARLOS EXACTAMENTE):**
%s

**Competencias Clave a trabajar (extrae solo las abreviaturas entre paréntesis, ej: CCL, CD):**
%s

**Criterios de Evaluación como Guía (puedes usarlos o buscar otros más adecuados del currículo):**
%s

**Niveles de Desempeño a utilizar (Nombre: Puntuación):**
%s

Instrucciones para la generación:
1. **Respeta los Ítems y Pesos:** Utiliza los ítems y pesos porcentuales EXACTOS que se han proporcionado. No los modifiques, inventes ni omitas. El nombre del ítem en el JSON debe ser idéntico al proporcionado.
2. **Asocia Criterios Curriculares:** Para CADA ítem, busca y asocia los criterios de evaluación oficiales del currículo de la Región de Murcia que mejor se correspondan, asegurándote de que provienen de fuentes oficiales como 'educarm.es'. Incluye la numeración oficial y la descripción de cada criterio.
3. **Asocia Competencias Clave:** Para CADA ítem, identifica y asocia las abreviaturas de las competencias clave más relevantes de la lista proporcionada. Un ítem puede estar asociado a varias competencias.
4. **Genera Descriptores:** Para CADA ítem, crea una descripción detallada para CADA uno de los niveles de desempeño solicitados. Estas descripciones deben ser progresivas y observables. Las descripciones para los niveles pueden tener varios puntos o líneas separadas por un salto de línea (\n) para mayor detalle.
5. **Formato de Salida:** Devuelve un objeto JSON válido que se ajuste al esquema proporcionado. El campo 'competenciasAsociadas' debe contener solo las abreviaturas (ej: "CCL", "STEM").`
